package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"armancoffee/internal/models"
)

func (db *DB) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := db.QueryRowContext(ctx,
		`SELECT id, phone, name, created_at, updated_at FROM customers WHERE phone = ?`, phone).
		Scan(&customer.ID, &customer.Phone, &customer.Name, &customer.CreatedAt, &customer.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", phone, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (db *DB) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	ts := now()
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO customers (id, phone, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, customer.Phone, customer.Name, ts, ts,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("customer %s: %w", customer.Phone, ErrDuplicate)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	customer.ID = id
	customer.CreatedAt = ts
	customer.UpdatedAt = ts
	return nil
}
