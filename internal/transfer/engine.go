package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
	"github.com/Nana-Caring/Backend--sub002/internal/audit"
	"github.com/Nana-Caring/Backend--sub002/internal/distribution"
	"github.com/Nana-Caring/Backend--sub002/internal/events"
	"github.com/Nana-Caring/Backend--sub002/internal/ledger"
)

const scopeTimeout = 10 * time.Second

type Engine struct {
	Pool     *pgxpool.Pool
	Accounts *accounts.Repository
	Events   events.Publisher
}

func NewEngine(pool *pgxpool.Pool, accountsRepo *accounts.Repository, publisher events.Publisher) *Engine {
	return &Engine{Pool: pool, Accounts: accountsRepo, Events: publisher}
}

// Result reports the committed transfer. Distribution is nil when the full
// amount stayed in the destination account.
type Result struct {
	Reference          string           `json:"reference"`
	Amount             int64            `json:"amount"`
	FunderBalance      int64            `json:"funder_balance"`
	DestinationBalance int64            `json:"destination_balance"`
	Distribution       map[string]int64 `json:"distribution,omitempty"`
	Emergency          int64            `json:"emergency,omitempty"`
}

// Transfer moves amount cents from the funder's Main account into the
// beneficiary's destination account in one atomic scope. When the destination
// is the beneficiary's Main account and category accounts exist, the amount
// is swept into the distribution policy: each category gets its share and the
// emergency remainder returns to Main. Every balance mutation and its ledger
// entry commit together or not at all.
func (e *Engine) Transfer(ctx context.Context, funderID, beneficiaryID, accountNumber string, amount int64, description string) (*Result, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", apperr.ErrValidation)
	}
	if accountNumber == "" {
		return nil, fmt.Errorf("account number required: %w", apperr.ErrValidation)
	}
	if funderID == beneficiaryID {
		return nil, fmt.Errorf("cannot transfer to yourself: %w", apperr.ErrValidation)
	}

	linked, err := e.Accounts.HasGuardianLink(ctx, funderID, beneficiaryID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, fmt.Errorf("funder is not linked to this beneficiary: %w", apperr.ErrNotAuthorized)
	}

	funderMain, err := e.Accounts.GetMainByUser(ctx, funderID)
	if err != nil {
		return nil, err
	}
	dest, err := e.Accounts.GetByNumberAndUser(ctx, accountNumber, beneficiaryID)
	if err != nil {
		return nil, err
	}
	if funderMain.Status != "active" || dest.Status != "active" {
		return nil, fmt.Errorf("account is not active: %w", apperr.ErrValidation)
	}

	// Category accounts only matter when the destination is Main.
	var categoryAccounts []accounts.Account
	if dest.IsMain {
		all, err := e.Accounts.ListByUser(ctx, beneficiaryID)
		if err != nil {
			return nil, err
		}
		for _, a := range all {
			if !a.IsMain && a.Status == "active" {
				categoryAccounts = append(categoryAccounts, a)
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, scopeTimeout)
	defer cancel()

	res, err := e.run(ctx, funderMain, dest, categoryAccounts, amount, description)
	if err != nil {
		return nil, apperr.ClassifyPg(err)
	}

	// Post-commit side effects only: never inside the scope.
	events.Emit(context.WithoutCancel(ctx), e.Events, events.TransferCompleted, events.TransferCompletedEvent{
		Reference:     res.Reference,
		FunderID:      funderID,
		BeneficiaryID: beneficiaryID,
		Amount:        amount,
		Distribution:  res.Distribution,
		Emergency:     res.Emergency,
		OccurredAt:    time.Now(),
	})

	meta, _ := json.Marshal(transferMeta{Reference: res.Reference, Amount: amount})
	if err := audit.Write(context.WithoutCancel(ctx), e.Pool, audit.Entry{
		UserID:     &funderID,
		Action:     audit.ActionTransfer,
		EntityType: "transfer",
		EntityID:   &res.Reference,
		Metadata:   meta,
	}); err != nil {
		slog.Error("audit write failed", "action", audit.ActionTransfer, "error", err)
	}

	slog.Info("transfer completed",
		"reference", res.Reference,
		"funder", funderID,
		"beneficiary", beneficiaryID,
		"amount", amount,
		"distributed", res.Distribution != nil,
	)
	return res, nil
}

type transferMeta struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

func (e *Engine) run(ctx context.Context, funderMain, dest *accounts.Account, categoryAccounts []accounts.Account, amount int64, description string) (*Result, error) {
	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock every account the scope will mutate, in ascending id order.
	ids := []string{funderMain.ID, dest.ID}
	byType := make(map[accounts.Type]accounts.Account, len(categoryAccounts))
	var existing []accounts.Type
	for _, a := range categoryAccounts {
		ids = append(ids, a.ID)
		byType[a.Type] = a
		existing = append(existing, a.Type)
	}
	locked, err := accounts.LockForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	available := locked[funderMain.ID].Balance
	if available < amount {
		return nil, apperr.NewInsufficientFunds("", amount, available)
	}

	now := time.Now()
	ref := NewReference(now)
	res := &Result{Reference: ref, Amount: amount}

	funderBalance, err := accounts.Debit(ctx, tx, funderMain.ID, amount)
	if err != nil {
		return nil, err
	}
	if _, err := ledger.Append(ctx, tx, funderMain.ID, ledger.Debit, amount, description, ref+"-OUT", funderBalance); err != nil {
		return nil, err
	}
	res.FunderBalance = funderBalance

	destBalance, err := accounts.Credit(ctx, tx, dest.ID, amount)
	if err != nil {
		return nil, err
	}
	if _, err := ledger.Append(ctx, tx, dest.ID, ledger.Credit, amount, description, ref+"-IN", destBalance); err != nil {
		return nil, err
	}
	res.DestinationBalance = destBalance

	if dest.IsMain && len(existing) > 0 {
		dist, err := distribution.Compute(amount, existing)
		if err != nil {
			return nil, err
		}
		if dist.Total() != amount {
			return nil, fmt.Errorf("distribution of %d does not conserve amount %d", dist.Total(), amount)
		}

		// Sweep the incoming amount out of Main, then fund each category and
		// return the emergency remainder. Main's net credit is the emergency
		// amount.
		destBalance, err = accounts.Debit(ctx, tx, dest.ID, amount)
		if err != nil {
			return nil, err
		}
		if _, err := ledger.Append(ctx, tx, dest.ID, ledger.Debit, amount, "Auto-distribution to category accounts", SweepReference(ref, now), destBalance); err != nil {
			return nil, err
		}

		res.Distribution = make(map[string]int64, len(dist.Allocations))
		for _, cat := range accounts.Categories() {
			alloc, ok := dist.Allocations[cat]
			if !ok || alloc == 0 {
				continue
			}
			acct := byType[cat]
			balance, err := accounts.Credit(ctx, tx, acct.ID, alloc)
			if err != nil {
				return nil, err
			}
			if _, err := ledger.Append(ctx, tx, acct.ID, ledger.Credit, alloc, fmt.Sprintf("Distribution to %s", cat), DistributionReference(ref, cat, now), balance); err != nil {
				return nil, err
			}
			res.Distribution[string(cat)] = alloc
		}

		if dist.Emergency > 0 {
			destBalance, err = accounts.Credit(ctx, tx, dest.ID, dist.Emergency)
			if err != nil {
				return nil, err
			}
			if _, err := ledger.Append(ctx, tx, dest.ID, ledger.Credit, dist.Emergency, "Emergency fund", EmergencyReference(ref, now), destBalance); err != nil {
				return nil, err
			}
		}
		res.Emergency = dist.Emergency
		res.DestinationBalance = destBalance
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
