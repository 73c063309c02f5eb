package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidMoney = errors.New("invalid money amount")
)

// RandsToCents converts a rand value (like 12.34) to cents as int64 safely.
// Use ONLY when you must parse user-entered decimal rands.
// Prefer sending cents directly from clients.
func RandsToCents(rands float64) (int64, error) {
	if math.IsNaN(rands) || math.IsInf(rands, 0) {
		return 0, ErrInvalidMoney
	}
	if rands < 0 {
		return 0, ErrInvalidMoney
	}
	// Prevent overflow: int64 max ~9e18 => rands max ~9e16
	if rands > 9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidMoney)
	}
	cents := int64(math.Round(rands * 100.0))
	if cents < 0 {
		return 0, ErrInvalidMoney
	}
	return cents, nil
}

// CentsToRandString formats cents the way South African statements print rand
// amounts: space-grouped thousands, two decimals, no float math.
// 1234567 -> "12 345.67".
func CentsToRandString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s.%02d", sign, groupThousands(cents/100), cents%100)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
