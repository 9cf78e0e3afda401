package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"armancoffee/internal/models"
)

func (db *DB) CreateOrder(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	ts := now()
	id := newID()
	_, err = db.ExecContext(ctx,
		`INSERT INTO orders (id, phone, table_id, order_type, items, total, status, payment_status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, order.Phone, order.TableID, order.OrderType, string(itemsJSON),
		order.Total, order.Status, order.PaymentStatus, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = id
	order.CreatedAt = ts
	order.UpdatedAt = ts
	return nil
}

func (db *DB) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, phone, table_id, order_type, items, total, status, payment_status, created_at, updated_at
         FROM orders WHERE id = ?`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns orders matching all supplied filters (empty string
// skips a filter), newest first, capped at limit.
func (db *DB) ListOrders(ctx context.Context, status, phone string, limit int) ([]models.Order, error) {
	query := `SELECT id, phone, table_id, order_type, items, total, status, payment_status, created_at, updated_at
              FROM orders WHERE 1=1`
	args := []any{}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if phone != "" {
		query += ` AND phone = ?`
		args = append(args, phone)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (db *DB) UpdateOrderStatus(ctx context.Context, id, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListOrdersByDateRange returns orders created within [startDate, endDate]
// (inclusive, YYYY-MM-DD), oldest first. Used by the report worker.
func (db *DB) ListOrdersByDateRange(ctx context.Context, startDate, endDate string) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, phone, table_id, order_type, items, total, status, payment_status, created_at, updated_at
         FROM orders WHERE date(created_at) BETWEEN ? AND ? ORDER BY created_at`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by range: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order     models.Order
		phone     sql.NullString
		tableID   sql.NullString
		itemsJSON string
	)
	err := row.Scan(&order.ID, &phone, &tableID, &order.OrderType, &itemsJSON,
		&order.Total, &order.Status, &order.PaymentStatus, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	order.Phone = phone.String
	order.TableID = tableID.String
	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return &order, nil
}
