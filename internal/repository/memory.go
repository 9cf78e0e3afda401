package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryCodeRepository is the in-process fallback when Redis is not
// configured or unreachable. Expiry is checked lazily on read.
type MemoryCodeRepository struct {
	codes      sync.Map
	rateLimits sync.Map
}

type codeEntry struct {
	code      string
	expiresAt time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryCodeRepository() *MemoryCodeRepository {
	return &MemoryCodeRepository{}
}

func (r *MemoryCodeRepository) SetCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	r.codes.Store(phone, &codeEntry{code: code, expiresAt: time.Now().Add(ttl)})
	return nil
}

func (r *MemoryCodeRepository) GetCode(ctx context.Context, phone string) (string, error) {
	val, ok := r.codes.Load(phone)
	if !ok {
		return "", nil
	}
	entry := val.(*codeEntry)
	if time.Now().After(entry.expiresAt) {
		r.codes.Delete(phone)
		return "", nil
	}
	return entry.code, nil
}

func (r *MemoryCodeRepository) DeleteCode(ctx context.Context, phone string) error {
	r.codes.Delete(phone)
	return nil
}

func (r *MemoryCodeRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(phone)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(phone, entry)
	return entry.count <= limit, nil
}
