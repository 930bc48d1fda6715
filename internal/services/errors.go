package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrOrderDateBlocked   = errors.New("orders are closed for this date")
	ErrPaymentGateway     = errors.New("payment gateway unavailable")
	ErrPaymentUnavailable = errors.New("card payments are not configured")
	ErrOrderAlreadyPaid   = errors.New("order is already paid")
	ErrPaidOrderDelete    = errors.New("order is paid; deletion needs confirmation")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicatePricing   = errors.New("a pricing entry for this location already exists")
	ErrUnsupportedImage   = errors.New("unsupported image format")
	ErrInvalidPaymentHash = errors.New("payment callback hash mismatch")
)

// ValidationError lists the offending fields of a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func fieldError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// BlockedDateError carries the admin-configured message of the matching range.
type BlockedDateError struct {
	Message string
}

func (e *BlockedDateError) Error() string {
	if e.Message == "" {
		return ErrOrderDateBlocked.Error()
	}
	return e.Message
}

func (e *BlockedDateError) Is(target error) bool {
	return target == ErrOrderDateBlocked
}

// GatewayError is returned when a card payment cannot be started. It carries
// the WhatsApp link the storefront offers instead.
type GatewayError struct {
	Cause       error
	WhatsAppURL string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPaymentGateway, e.Cause)
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrPaymentGateway
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
