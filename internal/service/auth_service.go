package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"armancoffee/internal/database"
	"armancoffee/internal/domain"
	"armancoffee/internal/metrics"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
)

// AuthService implements phone-first identification: a one-time code is
// issued per phone, and verifying it either returns the existing customer
// or registers a new one.
type AuthService struct {
	store     domain.Store
	codes     domain.CodeRepository
	codeTTL   time.Duration
	sendLimit int
	sendWin   time.Duration
	debug     bool
	logger    *zerolog.Logger
}

func NewAuthService(store domain.Store, codes domain.CodeRepository, codeTTL time.Duration,
	sendLimit int, sendWindow time.Duration, debug bool, logger *zerolog.Logger) *AuthService {
	if codeTTL <= 0 {
		codeTTL = models.OTPTTLSeconds * time.Second
	}
	if sendLimit <= 0 {
		sendLimit = models.OTPRateLimit
	}
	if sendWindow <= 0 {
		sendWindow = models.OTPRateWindow * time.Second
	}
	return &AuthService{
		store:     store,
		codes:     codes,
		codeTTL:   codeTTL,
		sendLimit: sendLimit,
		sendWin:   sendWindow,
		debug:     debug,
		logger:    logger,
	}
}

// ValidPhone accepts 10-15 digit phone numbers.
func ValidPhone(phone string) bool {
	if len(phone) < models.PhoneMinDigits || len(phone) > models.PhoneMaxDigits {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SendOTP issues a crypto-random code for the phone, stores it with TTL and
// returns the code when debug mode is on (development only; a delivery
// channel replaces this in production).
func (s *AuthService) SendOTP(ctx context.Context, phone string) (debugCode string, err error) {
	if !ValidPhone(phone) {
		return "", validationf("invalid phone")
	}

	allowed, err := s.codes.CheckRateLimit(ctx, phone, s.sendLimit, s.sendWin)
	if err != nil {
		return "", fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		return "", ErrRateLimited
	}

	code, err := generateCode(models.OTPCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	if err := s.codes.SetCode(ctx, phone, code, s.codeTTL); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}

	metrics.IncOTPSent()
	s.logger.Info().Str("phone", phone).Msg("otp issued")

	if s.debug {
		return code, nil
	}
	return "", nil
}

// VerifyOTP checks the code for the phone. A matching code returns the
// existing customer, or creates one when the phone is new (name required).
// Codes are single-use.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code, name string) (*models.Customer, error) {
	if !ValidPhone(phone) {
		return nil, validationf("invalid phone")
	}
	if code == "" {
		return nil, ErrCodeMismatch
	}

	stored, err := s.codes.GetCode(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("get code: %w", err)
	}
	if stored == "" || stored != code {
		return nil, ErrCodeMismatch
	}

	if err := s.codes.DeleteCode(ctx, phone); err != nil {
		s.logger.Warn().Err(err).Str("phone", phone).Msg("delete used code failed")
	}

	customer, err := s.store.GetCustomerByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if name == "" {
		return nil, ErrNameRequired
	}

	customer = &models.Customer{Phone: phone, Name: name}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		// Параллельная регистрация того же телефона: возвращаем существующего
		if errors.Is(err, database.ErrDuplicate) {
			return s.store.GetCustomerByPhone(ctx, phone)
		}
		return nil, err
	}

	s.logger.Info().Str("phone", phone).Msg("customer registered")
	return customer, nil
}

// GetCustomer returns a customer by phone. A missing customer is reported
// via database.ErrNotFound; the HTTP layer maps it to a null body.
func (s *AuthService) GetCustomer(ctx context.Context, phone string) (*models.Customer, error) {
	return s.store.GetCustomerByPhone(ctx, phone)
}

func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
