package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"armancoffee/internal/models"
)

func (db *DB) CreatePayment(ctx context.Context, payment *models.Payment) error {
	ts := now()
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO payments (id, order_id, amount, gateway, status, redirect_url, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, payment.OrderID, payment.Amount, payment.Gateway, payment.Status, payment.RedirectURL, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	payment.ID = id
	payment.CreatedAt = ts
	payment.UpdatedAt = ts
	return nil
}

// SetPaymentRedirectURL stores the gateway redirect URL once the payment id
// it references exists.
func (db *DB) SetPaymentRedirectURL(ctx context.Context, paymentID, redirectURL string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE payments SET redirect_url = ?, updated_at = ? WHERE id = ?`,
		redirectURL, now(), paymentID)
	if err != nil {
		return fmt.Errorf("failed to set redirect url: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}
	return nil
}

func (db *DB) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var (
		payment  models.Payment
		redirect sql.NullString
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, order_id, amount, gateway, status, redirect_url, created_at, updated_at
         FROM payments WHERE id = ?`, id).
		Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Gateway,
			&payment.Status, &redirect, &payment.CreatedAt, &payment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	payment.RedirectURL = redirect.String
	return &payment, nil
}

// ApplyPaymentStatus updates a payment's status and, when the new status is
// exactly "success", flips the referenced order to paid/confirmed. Both
// writes happen in one transaction so a crash cannot leave a succeeded
// payment with an unpaid order.
func (db *DB) ApplyPaymentStatus(ctx context.Context, paymentID, status string) (*models.Payment, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var (
		payment  models.Payment
		redirect sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, order_id, amount, gateway, status, redirect_url, created_at, updated_at
         FROM payments WHERE id = ?`, paymentID).
		Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Gateway,
			&payment.Status, &redirect, &payment.CreatedAt, &payment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	payment.RedirectURL = redirect.String

	ts := now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ?`, status, ts, paymentID); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	if status == models.PaymentStatusSuccess {
		if _, err := tx.ExecContext(ctx,
			`UPDATE orders SET payment_status = ?, status = ?, updated_at = ? WHERE id = ?`,
			models.PaymentPaid, models.StatusConfirmed, ts, payment.OrderID); err != nil {
			return nil, fmt.Errorf("failed to cascade payment to order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment update: %w", err)
	}

	payment.Status = status
	payment.UpdatedAt = ts
	return &payment, nil
}
