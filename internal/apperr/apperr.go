package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the common failure classes. Engines wrap these with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrConcurrencyConflict = errors.New("concurrent update, retry the operation")
)

// InsufficientFundsError reports exactly how short a paying account is.
// Amounts are in cents. Category is empty for plain transfers.
type InsufficientFundsError struct {
	Category  string `json:"category,omitempty"`
	Required  int64  `json:"required"`
	Available int64  `json:"available"`
	Shortfall int64  `json:"shortfall"`
}

func (e *InsufficientFundsError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("insufficient funds for %s: required %d, available %d", e.Category, e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient funds: required %d, available %d", e.Required, e.Available)
}

func NewInsufficientFunds(category string, required, available int64) *InsufficientFundsError {
	return &InsufficientFundsError{
		Category:  category,
		Required:  required,
		Available: available,
		Shortfall: required - available,
	}
}

// UnderfundedError aggregates every underfunded category from a checkout
// attempt so the caller can fix all of them at once.
type UnderfundedError struct {
	Categories []InsufficientFundsError `json:"categories"`
}

func (e *UnderfundedError) Error() string {
	return fmt.Sprintf("checkout underfunded in %d categories", len(e.Categories))
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	var insufficient *InsufficientFundsError
	var underfunded *UnderfundedError

	switch {
	case errors.As(err, &insufficient), errors.As(err, &underfunded):
		return 400
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrNotAuthorized):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	case errors.Is(err, ErrConcurrencyConflict):
		return 409
	default:
		return 500
	}
}
