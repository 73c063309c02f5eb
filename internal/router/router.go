package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/cart"
	"github.com/Nana-Caring/Backend--sub002/internal/ledger"
	"github.com/Nana-Caring/Backend--sub002/internal/orders"
	"github.com/Nana-Caring/Backend--sub002/internal/reports"
	"github.com/Nana-Caring/Backend--sub002/internal/transfer"
)

type Router struct {
	AccountsHandler *accounts.Handler
	CartHandler     *cart.Handler
	LedgerHandler   *ledger.Handler
	TransferHandler *transfer.Handler
	OrdersHandler   *orders.Handler
	ReportsHandler  *reports.Handler
	AuthMW          fiber.Handler
	MoneyLimiter    fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.AccountsHandler != nil {
		app.Get("/api/accounts", r.AuthMW, r.AccountsHandler.ListAccounts)
	}

	if r.LedgerHandler != nil {
		app.Get("/api/accounts/:type/transactions", r.AuthMW, r.LedgerHandler.History)
	}

	if r.CartHandler != nil {
		app.Get("/api/cart", r.AuthMW, r.CartHandler.List)
		app.Post("/api/cart", r.AuthMW, r.CartHandler.AddItem)
		app.Delete("/api/cart/:id", r.AuthMW, r.CartHandler.RemoveItem)
	}

	if r.TransferHandler != nil {
		app.Post("/api/transfers", r.MoneyLimiter, r.AuthMW, r.TransferHandler.Transfer)
	}

	if r.OrdersHandler != nil {
		app.Post("/api/checkout", r.MoneyLimiter, r.AuthMW, r.OrdersHandler.Checkout)
		app.Get("/api/orders", r.AuthMW, r.OrdersHandler.List)
		app.Get("/api/orders/:id", r.AuthMW, r.OrdersHandler.Get)
		app.Post("/api/orders/:id/cancel", r.MoneyLimiter, r.AuthMW, r.OrdersHandler.Cancel)
	}

	if r.ReportsHandler != nil {
		app.Get("/api/reports/statement", r.AuthMW, r.ReportsHandler.StatementPDF)
	}
}
