package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/money"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type accountView struct {
	AccountNumber     string `json:"account_number"`
	Type              Type   `json:"type"`
	Balance           int64  `json:"balance"`
	BalanceFormatted  string `json:"balance_formatted"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	IsMain            bool   `json:"is_main"`
	LastTransactionAt string `json:"last_transaction_at,omitempty"`
}

func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	userID, err := ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	list, err := h.Repo.ListByUser(UserContext(c), userID)
	if err != nil {
		return err
	}

	out := make([]accountView, 0, len(list))
	for _, a := range list {
		v := accountView{
			AccountNumber:    a.AccountNumber,
			Type:             a.Type,
			Balance:          a.Balance,
			BalanceFormatted: money.CentsToRandString(a.Balance),
			Currency:         a.Currency,
			Status:           a.Status,
			IsMain:           a.IsMain,
		}
		if a.LastTransactionAt != nil {
			v.LastTransactionAt = a.LastTransactionAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		out = append(out, v)
	}

	return c.JSON(fiber.Map{"success": true, "accounts": out})
}

// ExtractUserID pulls the authenticated user id set by the JWT middleware.
func ExtractUserID(c *fiber.Ctx) (string, error) {
	val := c.Locals("user_id")
	if val == nil {
		val = c.Locals("userID")
	}
	if val == nil {
		return "", errors.New("user id missing")
	}
	if uid, ok := val.(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}

func UserContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
