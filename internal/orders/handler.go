package orders

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	// An empty body is fine: shipping address is optional.
	_ = c.BodyParser(&req)

	var shipping *string
	if addr := strings.TrimSpace(req.ShippingAddress); addr != "" {
		shipping = &addr
	}

	res, err := h.Engine.Checkout(accounts.UserContext(c), userID, shipping)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":           true,
		"message":           "order placed",
		"order":             res.Order,
		"items":             res.Items,
		"payment_breakdown": res.Breakdown,
		"unavailable_items": res.Unavailable,
	})
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID := strings.TrimSpace(c.Params("id"))
	if orderID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order id required")
	}

	res, err := h.Engine.CancelOrder(accounts.UserContext(c), orderID, userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "order cancelled",
		"refunded": res.Refunded,
		"credits":  res.Credits,
	})
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	list, err := h.Engine.Orders.ListByUser(accounts.UserContext(c), userID, c.QueryInt("limit", 20))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "orders": list})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ctx := accounts.UserContext(c)
	order, err := h.Engine.Orders.GetByIDAndUser(ctx, strings.TrimSpace(c.Params("id")), userID)
	if err != nil {
		return err
	}
	items, err := h.Engine.Orders.ItemsByOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "order": order, "items": items})
}
