package service

import (
	"errors"
	"fmt"
)

var (
	// ErrItemUnavailable is returned when an order references an inactive
	// catalog item.
	ErrItemUnavailable = errors.New("item unavailable")

	// ErrCodeMismatch означает неверный или истекший одноразовый код
	ErrCodeMismatch = errors.New("code mismatch")

	// ErrNameRequired is returned when a new phone verifies a code without
	// supplying a customer name.
	ErrNameRequired = errors.New("name required")

	// ErrRateLimited is returned when a phone exceeds the OTP send limit.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError marks a rejected request payload so the HTTP layer can
// answer 400 without inspecting error text. Store and driver failures are
// never wrapped in it.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
