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

type OrderService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewOrderService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *OrderService {
	return &OrderService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// OrderLineRequest is one requested line: the client sends only a catalog
// reference and quantity, never a price.
type OrderLineRequest struct {
	ItemID  string            `json:"item_id"`
	Qty     int64             `json:"qty"`
	Notes   string            `json:"notes,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

type CreateOrderRequest struct {
	Phone     string             `json:"customer_phone,omitempty"`
	TableID   string             `json:"table_id,omitempty"`
	OrderType string             `json:"type"`
	Items     []OrderLineRequest `json:"items"`
}

func (r *CreateOrderRequest) Validate() error {
	if !models.ValidOrderType(r.OrderType) {
		return validationf("invalid order type %q", r.OrderType)
	}
	if len(r.Items) == 0 {
		return validationf("items are required")
	}
	for i, line := range r.Items {
		if line.ItemID == "" {
			return validationf("item %d: item_id is required", i)
		}
		if line.Qty < 1 {
			return validationf("item %d: qty must be at least 1", i)
		}
	}
	if r.Phone != "" && !ValidPhone(r.Phone) {
		return validationf("invalid phone")
	}
	return nil
}

// Create resolves every requested line against the catalog, snapshots the
// current unit price, computes the total and persists the order as
// pending/unpaid. Any unknown or inactive item aborts the whole order.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lines := make([]models.OrderItem, 0, len(req.Items))
	var total float64
	for _, line := range req.Items {
		item, err := s.store.GetMenuItem(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.IsActive {
			return nil, fmt.Errorf("menu item %s: %w", line.ItemID, ErrItemUnavailable)
		}

		subtotal := models.Round2(item.Price * float64(line.Qty))
		lines = append(lines, models.OrderItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Qty:       line.Qty,
			UnitPrice: item.Price,
			Subtotal:  subtotal,
			Notes:     line.Notes,
			Options:   line.Options,
		})
		total += subtotal
	}

	order := &models.Order{
		Phone:         req.Phone,
		TableID:       req.TableID,
		OrderType:     req.OrderType,
		Items:         lines,
		Total:         models.Round2(total),
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	metrics.ObserveOrder(order.Total)
	s.publishOrderEvent(events.EventOrderCreated, order)
	s.logger.Info().Str("order_id", order.ID).Float64("total", order.Total).Msg("order created")

	return order, nil
}

// List returns orders matching the supplied filters, newest first.
// The response is always capped.
func (s *OrderService) List(ctx context.Context, status, phone string) ([]models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, validationf("invalid status %q", status)
	}
	return s.store.ListOrders(ctx, status, phone, models.MaxOrdersPerList)
}

// UpdateStatus moves an order to a new status from the closed set.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidOrderStatus(status) {
		return validationf("invalid status %q", status)
	}

	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}

	s.publishOrderEvent(events.EventOrderStatusChanged, &models.Order{ID: id, Status: status})
	return nil
}

func (s *OrderService) publishOrderEvent(eventType string, order *models.Order) {
	err := s.eventBus.PublishJSON(eventType, events.OrderEventPayload{
		OrderID:       order.ID,
		Phone:         order.Phone,
		TableID:       order.TableID,
		OrderType:     order.OrderType,
		Total:         order.Total,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish event failed")
	}
}
