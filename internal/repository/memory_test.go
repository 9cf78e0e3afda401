package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCodeRepository(t *testing.T) {
	repo := NewMemoryCodeRepository()
	ctx := context.Background()

	t.Run("SetAndGetCode", func(t *testing.T) {
		err := repo.SetCode(ctx, "79001234567", "123456", time.Hour)
		require.NoError(t, err)

		code, err := repo.GetCode(ctx, "79001234567")
		require.NoError(t, err)
		assert.Equal(t, "123456", code)
	})

	t.Run("MissingCode", func(t *testing.T) {
		code, err := repo.GetCode(ctx, "70000000000")
		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("DeleteCode", func(t *testing.T) {
		require.NoError(t, repo.SetCode(ctx, "79002222222", "654321", time.Hour))
		require.NoError(t, repo.DeleteCode(ctx, "79002222222"))

		code, err := repo.GetCode(ctx, "79002222222")
		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("CodeExpiry", func(t *testing.T) {
		require.NoError(t, repo.SetCode(ctx, "79003333333", "111111", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		code, err := repo.GetCode(ctx, "79003333333")
		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("RateLimit", func(t *testing.T) {
		phone := "79004444444"
		allowed, _ := repo.CheckRateLimit(ctx, phone, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, phone, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, phone, 2, time.Second)
		assert.False(t, allowed)

		// Wait for expiry
		time.Sleep(time.Second + 10*time.Millisecond)
		allowed, _ = repo.CheckRateLimit(ctx, phone, 2, time.Second)
		assert.True(t, allowed)
	})
}
