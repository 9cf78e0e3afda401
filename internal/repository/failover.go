package repository

import (
	"context"
	"sync/atomic"
	"time"

	"armancoffee/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverCodeRepository prefers the primary (Redis) and falls back to the
// in-memory repository when the primary errors, probing it again after a
// minute. Codes written to one backend may not be visible in the other
// during a failover window; a code then simply fails to verify.
type FailoverCodeRepository struct {
	primary   domain.CodeRepository
	fallback  domain.CodeRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed probe
}

func NewFailoverCodeRepository(primary, fallback domain.CodeRepository, logger *zerolog.Logger) *FailoverCodeRepository {
	return &FailoverCodeRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverCodeRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary code repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

// shouldTryPrimary reports whether the primary is believed healthy or due
// for a recovery probe.
func (r *FailoverCodeRepository) shouldTryPrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}

func (r *FailoverCodeRepository) SetCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	if r.shouldTryPrimary() {
		if err := r.primary.SetCode(ctx, phone, code, ttl); err == nil {
			r.isDown.Store(false)
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.SetCode(ctx, phone, code, ttl)
}

func (r *FailoverCodeRepository) GetCode(ctx context.Context, phone string) (string, error) {
	if r.shouldTryPrimary() {
		code, err := r.primary.GetCode(ctx, phone)
		if err == nil {
			r.isDown.Store(false)
			return code, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetCode(ctx, phone)
}

func (r *FailoverCodeRepository) DeleteCode(ctx context.Context, phone string) error {
	if r.shouldTryPrimary() {
		if err := r.primary.DeleteCode(ctx, phone); err == nil {
			r.isDown.Store(false)
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.DeleteCode(ctx, phone)
}

func (r *FailoverCodeRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	if r.shouldTryPrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, phone, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, phone, limit, window)
}
