package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"armancoffee/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	ts := now()
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO bookings (id, name, phone, party_size, date, time, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, booking.Name, booking.Phone, booking.PartySize, booking.Date, booking.Time, booking.Status, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = ts
	booking.UpdatedAt = ts
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := db.QueryRowContext(ctx,
		`SELECT id, name, phone, party_size, date, time, status, created_at, updated_at
         FROM bookings WHERE id = ?`, id).
		Scan(&booking.ID, &booking.Name, &booking.Phone, &booking.PartySize,
			&booking.Date, &booking.Time, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListBookings returns all bookings ordered by date, then time.
func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, phone, party_size, date, time, status, created_at, updated_at
         FROM bookings ORDER BY date, time`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(&booking.ID, &booking.Name, &booking.Phone, &booking.PartySize,
			&booking.Date, &booking.Time, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListBookingsByDateRange returns bookings with date in [startDate, endDate],
// ordered by date then time. Used by the report worker.
func (db *DB) ListBookingsByDateRange(ctx context.Context, startDate, endDate string) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, phone, party_size, date, time, status, created_at, updated_at
         FROM bookings WHERE date BETWEEN ? AND ? ORDER BY date, time`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by range: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(&booking.ID, &booking.Name, &booking.Phone, &booking.PartySize,
			&booking.Date, &booking.Time, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
