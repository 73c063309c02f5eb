package cart

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id required")
	}
	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than zero")
	}

	item, err := h.Repo.AddItem(accounts.UserContext(c), userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "item": item})
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Repo.LoadActive(accounts.UserContext(c), userID)
	if err != nil {
		return err
	}

	var total int64
	views := make([]fiber.Map, 0, len(items))
	for _, it := range items {
		views = append(views, fiber.Map{
			"id":           it.ID,
			"product_id":   it.ProductID,
			"product_name": it.ProductName,
			"category":     it.Category,
			"quantity":     it.Quantity,
			"unit_price":   it.UnitPrice,
			"subtotal":     it.Subtotal(),
			"available":    it.Available(),
		})
		if it.Available() {
			total += it.Subtotal()
		}
	}

	return c.JSON(fiber.Map{"success": true, "items": views, "total": total})
}

func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID := strings.TrimSpace(c.Params("id"))
	if itemID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "item id required")
	}

	if err := h.Repo.RemoveItem(accounts.UserContext(c), userID, itemID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "item removed"})
}
