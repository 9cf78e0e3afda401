package service

import (
	"context"
	"testing"

	"armancoffee/internal/events"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaymentService(store *MockStore, bus *events.EventBus) *PaymentService {
	logger := zerolog.Nop()
	return NewPaymentService(store, bus, "mockpay", "http://localhost:8080", &logger)
}

func TestPaymentCreate_DefaultsToOrderTotal(t *testing.T) {
	store := new(MockStore)
	svc := newPaymentService(store, events.NewEventBus())
	ctx := context.Background()

	order := &models.Order{ID: "o1", Total: 520.50}
	store.On("GetOrder", ctx, "o1").Return(order, nil)
	store.On("CreatePayment", ctx, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Payment).ID = "p1"
		}).Return(nil)
	store.On("SetPaymentRedirectURL", ctx, "p1", "http://localhost:8080/pay/p1").Return(nil)

	payment, err := svc.Create(ctx, "o1", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 520.50, payment.Amount)
	assert.Equal(t, "mockpay", payment.Gateway)
	assert.Equal(t, models.PaymentStatusCreated, payment.Status)
	assert.Equal(t, "http://localhost:8080/pay/p1", payment.RedirectURL)
	store.AssertExpectations(t)
}

func TestPaymentCreate_ExplicitAmountAndGateway(t *testing.T) {
	store := new(MockStore)
	svc := newPaymentService(store, events.NewEventBus())
	ctx := context.Background()

	store.On("GetOrder", ctx, "o1").Return(&models.Order{ID: "o1", Total: 100}, nil)
	store.On("CreatePayment", ctx, mock.AnythingOfType("*models.Payment")).Return(nil)
	store.On("SetPaymentRedirectURL", ctx, mock.Anything, mock.Anything).Return(nil)

	payment, err := svc.Create(ctx, "o1", "stripe", 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, payment.Amount)
	assert.Equal(t, "stripe", payment.Gateway)
}

func TestPaymentCreate_NegativeAmount(t *testing.T) {
	store := new(MockStore)
	svc := newPaymentService(store, events.NewEventBus())
	ctx := context.Background()

	store.On("GetOrder", ctx, "o1").Return(&models.Order{ID: "o1", Total: 100}, nil)

	_, err := svc.Create(ctx, "o1", "", -5)
	assert.Error(t, err)
	store.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestApplyWebhook_DefaultsToSuccess(t *testing.T) {
	store := new(MockStore)
	bus := events.NewEventBus()
	svc := newPaymentService(store, bus)
	ctx := context.Background()

	var succeeded int
	bus.Subscribe(events.EventPaymentSucceeded, func(event *events.Event) error {
		succeeded++
		return nil
	})

	applied := &models.Payment{ID: "p1", OrderID: "o1", Amount: 300, Status: models.PaymentStatusSuccess}
	store.On("ApplyPaymentStatus", ctx, "p1", models.PaymentStatusSuccess).Return(applied, nil)

	payment, err := svc.ApplyWebhook(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, 1, succeeded)
}

func TestApplyWebhook_FailureEmitsNoEvent(t *testing.T) {
	store := new(MockStore)
	bus := events.NewEventBus()
	svc := newPaymentService(store, bus)
	ctx := context.Background()

	var succeeded int
	bus.Subscribe(events.EventPaymentSucceeded, func(event *events.Event) error {
		succeeded++
		return nil
	})

	applied := &models.Payment{ID: "p1", OrderID: "o1", Status: models.PaymentStatusFailed}
	store.On("ApplyPaymentStatus", ctx, "p1", models.PaymentStatusFailed).Return(applied, nil)

	_, err := svc.ApplyWebhook(ctx, "p1", models.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Zero(t, succeeded)
}
