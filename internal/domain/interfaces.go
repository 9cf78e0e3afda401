package domain

import (
	"context"
	"time"

	"armancoffee/internal/models"
)

// Store is the persistence contract: generated ids on insert,
// created_at/updated_at stamping, filtered find with sort and limit,
// partial update by id.
type Store interface {
	// Menu
	ReplaceMenu(ctx context.Context, categories []models.MenuCategory) error
	GetMenu(ctx context.Context) ([]models.MenuCategory, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)

	// Customers
	GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, status, phone string, limit int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error

	// Payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
	SetPaymentRedirectURL(ctx context.Context, paymentID, redirectURL string) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ApplyPaymentStatus(ctx context.Context, paymentID, status string) (*models.Payment, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) error

	// Tables
	CreateTable(ctx context.Context, table *models.Table) error
	SetTableQRCode(ctx context.Context, id, qrCode string) error
	ListTables(ctx context.Context) ([]models.Table, error)
	TableStatuses(ctx context.Context) (map[string]string, error)
}

// CodeRepository stores one-time codes and tracks per-phone send limits.
type CodeRepository interface {
	SetCode(ctx context.Context, phone, code string, ttl time.Duration) error
	GetCode(ctx context.Context, phone string) (string, error)
	DeleteCode(ctx context.Context, phone string) error
	CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportQueue hands report requests to the background worker.
type ExportQueue interface {
	EnqueueExport(ctx context.Context, taskType, startDate, endDate string) error
}
