package repository

import (
	"context"
	"fmt"
	"time"

	"armancoffee/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisCodeRepository keeps one-time codes in Redis where TTL expiry is
// native. Keys: otp_code:<phone>, otp_limit:<phone>.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewRedisClient создает клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

func (r *RedisCodeRepository) SetCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("otp_code:%s", phone)
	if err := r.client.Set(ctx, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set code in redis: %w", err)
	}
	return nil
}

// GetCode returns the stored code for a phone, or "" when none exists.
func (r *RedisCodeRepository) GetCode(ctx context.Context, phone string) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("otp_code:%s", phone)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get code from redis: %w", err)
	}
	return val, nil
}

func (r *RedisCodeRepository) DeleteCode(ctx context.Context, phone string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("otp_code:%s", phone)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete code from redis: %w", err)
	}
	return nil
}

func (r *RedisCodeRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("otp_limit:%s", phone)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
