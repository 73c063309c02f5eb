package accounts

import (
	"strings"
	"time"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

// Type is the account type: the Main account or one spending category.
type Type string

const (
	TypeMain          Type = "main"
	TypeHealthcare    Type = "healthcare"
	TypeGroceries     Type = "groceries"
	TypeEducation     Type = "education"
	TypeTransport     Type = "transport"
	TypeEntertainment Type = "entertainment"
	TypeClothing      Type = "clothing"
	TypeBabyCare      Type = "baby_care"
	TypePregnancy     Type = "pregnancy"
)

// Categories lists every category type in a fixed order. Main is not a
// category; it is the fallback payer and the emergency-fund holder.
func Categories() []Type {
	return []Type{
		TypeHealthcare,
		TypeGroceries,
		TypeEducation,
		TypeTransport,
		TypeEntertainment,
		TypeClothing,
		TypeBabyCare,
		TypePregnancy,
	}
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == TypeMain {
		return t, nil
	}
	for _, c := range Categories() {
		if t == c {
			return t, nil
		}
	}
	return "", apperr.ErrValidation
}

// Upper renders the type the way transaction references expect it,
// e.g. "HEALTHCARE" or "BABY_CARE".
func (t Type) Upper() string {
	return strings.ToUpper(string(t))
}

type Account struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	AccountNumber     string     `json:"account_number"`
	Type              Type       `json:"type"`
	Balance           int64      `json:"balance"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	IsMain            bool       `json:"is_main"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
