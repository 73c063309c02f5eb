package ledger

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
)

type Handler struct {
	Repo     *Repository
	Accounts *accounts.Repository
}

func NewHandler(repo *Repository, accountsRepo *accounts.Repository) *Handler {
	return &Handler{Repo: repo, Accounts: accountsRepo}
}

// History returns the latest ledger entries for one of the caller's accounts,
// addressed by account type ("main", "healthcare", ...).
func (h *Handler) History(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	accountType, err := accounts.ParseType(c.Params("type"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unknown account type")
	}

	ctx := accounts.UserContext(c)
	account, err := h.Accounts.GetByUserAndType(ctx, userID, accountType)
	if err != nil {
		return err
	}

	entries, err := h.Repo.History(ctx, account.ID, c.QueryInt("limit", 50))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"account":      account.AccountNumber,
		"type":         account.Type,
		"balance":      account.Balance,
		"transactions": entries,
	})
}
