package models

import "time"

type Table struct {
	ID          string    `json:"id"`
	TableNumber int64     `json:"table_number"`
	QRCode      string    `json:"qr_code,omitempty"` // PNG, base64
	Status      string    `json:"status"`            // available, occupied, reserved
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
