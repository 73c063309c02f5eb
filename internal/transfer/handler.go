package transfer

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/money"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

type transferRequest struct {
	BeneficiaryID string  `json:"beneficiary_id"`
	AccountNumber string  `json:"account_number"`
	Amount        int64   `json:"amount"`       // cents
	AmountRands   float64 `json:"amount_rands"` // decimal rands, for older clients
	Description   string  `json:"description"`
}

// resolveAmount prefers cents; amount_rands is accepted from clients that
// still send decimal rand values.
func resolveAmount(cents int64, rands float64) (int64, error) {
	if cents > 0 {
		return cents, nil
	}
	if rands > 0 {
		return money.RandsToCents(rands)
	}
	return 0, money.ErrInvalidMoney
}

func (h *Handler) Transfer(c *fiber.Ctx) error {
	funderID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.BeneficiaryID = strings.TrimSpace(req.BeneficiaryID)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	if req.BeneficiaryID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "beneficiary_id required")
	}
	if req.AccountNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "account_number required")
	}
	amount, err := resolveAmount(req.Amount, req.AmountRands)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Transfer"
	}

	res, err := h.Engine.Transfer(accounts.UserContext(c), funderID, req.BeneficiaryID, req.AccountNumber, amount, description)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":            true,
		"message":            "transfer completed",
		"transfer_reference": res.Reference,
		"amount":             res.Amount,
		"amount_formatted":   money.CentsToRandString(res.Amount),
		"balances": fiber.Map{
			"funder":      res.FunderBalance,
			"destination": res.DestinationBalance,
		},
		"distribution": res.Distribution,
		"emergency":    res.Emergency,
	})
}
