package database

import (
	"context"
	"database/sql"
	"fmt"

	"armancoffee/internal/models"
)

func (db *DB) CreateTable(ctx context.Context, table *models.Table) error {
	ts := now()
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO tables (id, table_number, qr_code, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, table.TableNumber, table.QRCode, table.Status, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	table.ID = id
	table.CreatedAt = ts
	table.UpdatedAt = ts
	return nil
}

// SetTableQRCode attaches a generated QR code to an existing table.
func (db *DB) SetTableQRCode(ctx context.Context, id, qrCode string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE tables SET qr_code = ?, updated_at = ? WHERE id = ?`, qrCode, now(), id)
	if err != nil {
		return fmt.Errorf("failed to set table qr code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("table %s: %w", id, ErrNotFound)
	}
	return nil
}

func (db *DB) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, table_number, qr_code, status, created_at, updated_at
         FROM tables ORDER BY table_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var (
			table models.Table
			qr    sql.NullString
		)
		err := rows.Scan(&table.ID, &table.TableNumber, &qr, &table.Status, &table.CreatedAt, &table.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		table.QRCode = qr.String
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

// TableStatuses projects table occupancy from orders: a table referenced by
// an order is occupied until that order's payment_status turns paid. Tables
// no order ever referenced are omitted; callers see the projection, not the
// stored table status.
func (db *DB) TableStatuses(ctx context.Context) (map[string]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_id, payment_status FROM orders
         WHERE table_id IS NOT NULL AND table_id != ''
         ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query table statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]string)
	for rows.Next() {
		var tableID, paymentStatus string
		if err := rows.Scan(&tableID, &paymentStatus); err != nil {
			return nil, fmt.Errorf("failed to scan table status: %w", err)
		}
		if paymentStatus == models.PaymentPaid {
			statuses[tableID] = models.TableAvailable
		} else {
			statuses[tableID] = models.TableOccupied
		}
	}
	return statuses, rows.Err()
}
