package models

import (
	"math"
	"time"
)

type Order struct {
	ID            string      `json:"id"`
	Phone         string      `json:"phone,omitempty"`
	TableID       string      `json:"table_id,omitempty"`
	OrderType     string      `json:"order_type"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`         // pending, confirmed, cancelled
	PaymentStatus string      `json:"payment_status"` // unpaid, paid
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem is a line in an order. Name and UnitPrice are snapshotted from
// the catalog when the order is created and are never recomputed afterwards.
type OrderItem struct {
	ItemID    string            `json:"item_id"`
	Name      string            `json:"name"`
	Qty       int64             `json:"qty"`
	UnitPrice float64           `json:"unit_price"`
	Subtotal  float64           `json:"subtotal"`
	Notes     string            `json:"notes,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

// Round2 rounds a money amount to 2 decimal places, half away from zero
// (150.005 -> 150.01). All persisted totals pass through it.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
