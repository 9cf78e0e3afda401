package service

import (
	"context"
	"time"

	"armancoffee/internal/domain"
	"armancoffee/internal/events"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{store: store, eventBus: eventBus, logger: logger}
}

type CreateBookingRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	PartySize int64  `json:"party_size"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
}

func (r *CreateBookingRequest) Validate() error {
	if r.Name == "" {
		return validationf("name is required")
	}
	if !ValidPhone(r.Phone) {
		return validationf("invalid phone")
	}
	if r.PartySize < 1 {
		return validationf("party_size must be at least 1")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return validationf("invalid date format; expected YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return validationf("invalid time format; expected HH:MM")
	}
	return nil
}

func (s *BookingService) Create(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Name:      req.Name,
		Phone:     req.Phone,
		PartySize: req.PartySize,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.StatusConfirmed,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishBookingEvent(events.EventBookingCreated, booking)
	s.logger.Info().Str("booking_id", booking.ID).Str("date", booking.Date).Msg("booking created")
	return booking, nil
}

// List returns all bookings ordered by date ascending.
func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListBookings(ctx)
}

// Cancel soft-deletes a booking by moving it to the cancelled status.
// Cancelling an already cancelled booking succeeds and keeps the status.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	if err := s.store.UpdateBookingStatus(ctx, id, models.StatusCancelled); err != nil {
		return err
	}

	booking, err := s.store.GetBooking(ctx, id)
	if err == nil {
		s.publishBookingEvent(events.EventBookingCancelled, booking)
	}
	return nil
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking) {
	err := s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID: booking.ID,
		Name:      booking.Name,
		Phone:     booking.Phone,
		Date:      booking.Date,
		Time:      booking.Time,
		Status:    booking.Status,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish event failed")
	}
}
