package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"armancoffee/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenCodeRepository fails every call.
type brokenCodeRepository struct {
	calls int
}

var errBackendDown = errors.New("backend down")

func (b *brokenCodeRepository) SetCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	b.calls++
	return errBackendDown
}

func (b *brokenCodeRepository) GetCode(ctx context.Context, phone string) (string, error) {
	b.calls++
	return "", errBackendDown
}

func (b *brokenCodeRepository) DeleteCode(ctx context.Context, phone string) error {
	b.calls++
	return errBackendDown
}

func (b *brokenCodeRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	b.calls++
	return false, errBackendDown
}

var _ domain.CodeRepository = (*brokenCodeRepository)(nil)

func TestFailover_HealthyPrimary(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemoryCodeRepository()
	fallback := NewMemoryCodeRepository()
	repo := NewFailoverCodeRepository(primary, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, repo.SetCode(ctx, "79001234567", "123456", time.Hour))

	// The write went to the primary, not the fallback.
	code, err := primary.GetCode(ctx, "79001234567")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	code, err = fallback.GetCode(ctx, "79001234567")
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestFailover_FallsBackOnError(t *testing.T) {
	logger := zerolog.Nop()
	broken := &brokenCodeRepository{}
	fallback := NewMemoryCodeRepository()
	repo := NewFailoverCodeRepository(broken, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, repo.SetCode(ctx, "79001234567", "123456", time.Hour))

	code, err := repo.GetCode(ctx, "79001234567")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestFailover_SkipsPrimaryWhileDown(t *testing.T) {
	logger := zerolog.Nop()
	broken := &brokenCodeRepository{}
	fallback := NewMemoryCodeRepository()
	repo := NewFailoverCodeRepository(broken, fallback, &logger)
	ctx := context.Background()

	// First call marks the primary down.
	require.NoError(t, repo.SetCode(ctx, "79001234567", "123456", time.Hour))
	callsAfterFirst := broken.calls

	// Subsequent calls go straight to the fallback until the probe window.
	_, err := repo.GetCode(ctx, "79001234567")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteCode(ctx, "79001234567"))

	assert.Equal(t, callsAfterFirst, broken.calls)
}

func TestFailover_RateLimitFallsBack(t *testing.T) {
	logger := zerolog.Nop()
	repo := NewFailoverCodeRepository(&brokenCodeRepository{}, NewMemoryCodeRepository(), &logger)
	ctx := context.Background()

	allowed, err := repo.CheckRateLimit(ctx, "79001234567", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, "79001234567", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
