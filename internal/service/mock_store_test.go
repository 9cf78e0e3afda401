package service

import (
	"context"

	"armancoffee/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock of the domain.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ReplaceMenu(ctx context.Context, categories []models.MenuCategory) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockStore) GetMenu(ctx context.Context) ([]models.MenuCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuCategory), args.Error(1)
}

func (m *MockStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockStore) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockStore) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockStore) ListOrders(ctx context.Context, status, phone string, limit int) ([]models.Order, error) {
	args := m.Called(ctx, status, phone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockStore) SetPaymentRedirectURL(ctx context.Context, paymentID, redirectURL string) error {
	args := m.Called(ctx, paymentID, redirectURL)
	return args.Error(0)
}

func (m *MockStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockStore) ApplyPaymentStatus(ctx context.Context, paymentID, status string) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockStore) UpdateBookingStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStore) CreateTable(ctx context.Context, table *models.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockStore) SetTableQRCode(ctx context.Context, id, qrCode string) error {
	args := m.Called(ctx, id, qrCode)
	return args.Error(0)
}

func (m *MockStore) ListTables(ctx context.Context) ([]models.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Table), args.Error(1)
}

func (m *MockStore) TableStatuses(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
