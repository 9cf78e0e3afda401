package service

import (
	"context"
	"fmt"

	"armancoffee/internal/domain"
	"armancoffee/internal/events"
	"armancoffee/internal/metrics"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
)

type PaymentService struct {
	store          domain.Store
	eventBus       domain.EventPublisher
	defaultGateway string
	publicBaseURL  string
	logger         *zerolog.Logger
}

func NewPaymentService(store domain.Store, eventBus domain.EventPublisher,
	defaultGateway, publicBaseURL string, logger *zerolog.Logger) *PaymentService {
	if defaultGateway == "" {
		defaultGateway = "mockpay"
	}
	return &PaymentService{
		store:          store,
		eventBus:       eventBus,
		defaultGateway: defaultGateway,
		publicBaseURL:  publicBaseURL,
		logger:         logger,
	}
}

// Create registers a payment attempt for an order. The amount defaults to
// the order's current total; the redirect URL points the client at the
// gateway stub page for the new payment.
func (s *PaymentService) Create(ctx context.Context, orderID, gateway string, amount float64) (*models.Payment, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if amount < 0 {
		return nil, validationf("amount must not be negative")
	}
	if amount == 0 {
		amount = order.Total
	}
	if gateway == "" {
		gateway = s.defaultGateway
	}

	payment := &models.Payment{
		OrderID: order.ID,
		Amount:  models.Round2(amount),
		Gateway: gateway,
		Status:  models.PaymentStatusCreated,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	// Redirect URL can only reference the payment once its id exists.
	payment.RedirectURL = fmt.Sprintf("%s/pay/%s", s.publicBaseURL, payment.ID)
	if err := s.store.SetPaymentRedirectURL(ctx, payment.ID, payment.RedirectURL); err != nil {
		return nil, err
	}

	s.logger.Info().Str("payment_id", payment.ID).Str("order_id", order.ID).
		Float64("amount", payment.Amount).Msg("payment created")
	return payment, nil
}

// ApplyWebhook applies a gateway status notification. A "success" status
// atomically flips the referenced order to paid/confirmed; any other status
// only updates the payment. Signature verification happens at the HTTP
// boundary before this is called.
func (s *PaymentService) ApplyWebhook(ctx context.Context, paymentID, status string) (*models.Payment, error) {
	if status == "" {
		status = models.PaymentStatusSuccess
	}

	payment, err := s.store.ApplyPaymentStatus(ctx, paymentID, status)
	if err != nil {
		return nil, err
	}

	if status == models.PaymentStatusSuccess {
		metrics.IncPaymentSucceeded()
		err := s.eventBus.PublishJSON(events.EventPaymentSucceeded, events.OrderEventPayload{
			OrderID:       payment.OrderID,
			Total:         payment.Amount,
			Status:        models.StatusConfirmed,
			PaymentStatus: models.PaymentPaid,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("publish payment event failed")
		}
	}

	s.logger.Info().Str("payment_id", paymentID).Str("status", status).Msg("payment webhook applied")
	return payment, nil
}
