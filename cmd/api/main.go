package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/cart"
	"github.com/Nana-Caring/Backend--sub002/internal/config"
	"github.com/Nana-Caring/Backend--sub002/internal/events"
	"github.com/Nana-Caring/Backend--sub002/internal/ledger"
	"github.com/Nana-Caring/Backend--sub002/internal/orders"
	"github.com/Nana-Caring/Backend--sub002/internal/reports"
	"github.com/Nana-Caring/Backend--sub002/internal/router"
	"github.com/Nana-Caring/Backend--sub002/internal/transfer"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is not set")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	pool, err := connectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			slog.Error("amqp connection failed, events disabled", "error", err)
		} else {
			publisher = amqpPub
		}
	}

	accountsRepo := accounts.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)
	cartRepo := cart.NewRepository(pool)
	ordersRepo := orders.NewRepository(pool)

	transferEngine := transfer.NewEngine(pool, accountsRepo, publisher)
	checkoutEngine := orders.NewEngine(pool, accountsRepo, cartRepo, ordersRepo, publisher)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          router.ErrorHandler,
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	r := &router.Router{
		AccountsHandler: accounts.NewHandler(accountsRepo),
		CartHandler:     cart.NewHandler(cartRepo),
		LedgerHandler:   ledger.NewHandler(ledgerRepo, accountsRepo),
		TransferHandler: transfer.NewHandler(transferEngine),
		OrdersHandler:   orders.NewHandler(checkoutEngine),
		ReportsHandler:  reports.NewHandler(ledgerRepo, accountsRepo),
		AuthMW:          buildJWTMiddleware([]byte(cfg.JWTSecret)),
		MoneyLimiter:    rateLimitMoney(),
	}
	r.RegisterRoutes(app)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	pool.Close()
	slog.Info("server exited")
}

func connectDB(databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}
	return pool, nil
}

// rateLimitMoney throttles the mutating money routes.
func rateLimitMoney() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
	})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).String(),
		)
		return err
	}
}

func buildJWTMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		userID, ok := claims["user_id"].(string)
		if !ok || strings.TrimSpace(userID) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
