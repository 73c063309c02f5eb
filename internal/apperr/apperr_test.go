package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("amount must be positive: %w", ErrValidation), 400},
		{"authorization", fmt.Errorf("no link: %w", ErrNotAuthorized), 403},
		{"not found", fmt.Errorf("account: %w", ErrNotFound), 404},
		{"conflict", fmt.Errorf("reference reused: %w", ErrConflict), 409},
		{"concurrency", ErrConcurrencyConflict, 409},
		{"insufficient funds", NewInsufficientFunds("", 500, 200), 400},
		{"underfunded checkout", &UnderfundedError{}, 400},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestInsufficientFundsShortfall(t *testing.T) {
	e := NewInsufficientFunds("healthcare", 5000, 4000)
	assert.Equal(t, int64(1000), e.Shortfall)
	assert.Contains(t, e.Error(), "healthcare")
}
