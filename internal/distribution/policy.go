package distribution

import (
	"fmt"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

// Percent holds the fixed share of an incoming Main-account transfer that
// each category receives. The remaining 20% is the emergency-fund share,
// kept in the Main account.
var Percent = map[accounts.Type]int64{
	accounts.TypeHealthcare:    20,
	accounts.TypeGroceries:     16,
	accounts.TypeEducation:     16,
	accounts.TypeTransport:     8,
	accounts.TypeEntertainment: 4,
	accounts.TypeClothing:      4,
	accounts.TypeBabyCare:      4,
	accounts.TypePregnancy:     8,
}

// Result maps each existing category to its allocation in cents. Emergency is
// what stays in the Main account: the 20% emergency share, the shares of
// categories the beneficiary has no account for, and any rounding remainder.
type Result struct {
	Allocations map[accounts.Type]int64
	Emergency   int64
}

// Total returns the sum of all allocations plus the emergency amount.
func (r Result) Total() int64 {
	total := r.Emergency
	for _, v := range r.Allocations {
		total += v
	}
	return total
}

// Compute splits totalCents across the beneficiary's existing category
// accounts. Only categories the beneficiary actually holds receive an
// allocation; every unallocated cent folds into the emergency amount so that
// Total() always equals totalCents exactly.
func Compute(totalCents int64, existing []accounts.Type) (Result, error) {
	if totalCents <= 0 {
		return Result{}, fmt.Errorf("distribution amount must be positive: %w", apperr.ErrValidation)
	}

	res := Result{Allocations: make(map[accounts.Type]int64, len(existing))}

	var allocated int64
	for _, t := range existing {
		pct, ok := Percent[t]
		if !ok {
			// Main (or anything unknown) never receives a category allocation.
			continue
		}
		if _, dup := res.Allocations[t]; dup {
			continue
		}
		share := totalCents * pct / 100
		res.Allocations[t] = share
		allocated += share
	}

	res.Emergency = totalCents - allocated
	return res, nil
}
