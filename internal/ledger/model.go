package ledger

import "time"

type EntryType string

const (
	Credit EntryType = "Credit"
	Debit  EntryType = "Debit"
)

// Transaction is one immutable ledger entry. Corrections happen via new
// offsetting entries, never edits.
type Transaction struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	Type             EntryType `json:"type"`
	Amount           int64     `json:"amount"`
	Description      string    `json:"description"`
	Reference        string    `json:"reference"`
	ResultingBalance int64     `json:"resulting_balance"`
	CreatedAt        time.Time `json:"created_at"`
}
