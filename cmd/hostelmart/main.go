package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"hostelmart/internal/config"
	"hostelmart/internal/gateway"
	"hostelmart/internal/http/handlers"
	applog "hostelmart/internal/log"
	"hostelmart/internal/repos"
	"hostelmart/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	gw := gateway.NewSandbox(cfg.PaymentKeyID)
	deps := handlers.NewDeps(db, cfg, gw)

	requireUser := handlers.RequireUser(authSvc)
	requireSeller := handlers.RequireSeller(authSvc)
	requireAdmin := handlers.RequireAdmin(authSvc)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Public listing surface
	app.Get("/listings", deps.ListingHandler.Browse)
	app.Get("/listings/:id", deps.ListingHandler.Detail)
	app.Get("/sellers/:id/reviews", deps.ReviewHandler.SellerReviews)

	api := app.Group("/api/v1")
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, deps.ListingHandler.Availability)

	// Cart
	app.Get("/cart", requireUser, deps.CartHandler.View)
	app.Post("/cart/items", requireUser, deps.CartHandler.Add)
	app.Patch("/cart/items/:listingId", requireUser, deps.CartHandler.SetQty)
	app.Delete("/cart/items/:listingId", requireUser, deps.CartHandler.Remove)
	app.Delete("/cart", requireUser, deps.CartHandler.Clear)

	// Payment & checkout
	app.Post("/payments/intent", requireUser, deps.CheckoutHandler.CreateIntent)
	app.Post("/checkout", requireUser, deps.CheckoutHandler.Place)

	// Orders
	app.Get("/orders", requireUser, deps.OrderHandler.MyOrders)
	app.Get("/orders/:id", requireUser, deps.OrderHandler.View)
	app.Patch("/orders/:id/status", requireSeller, deps.OrderHandler.UpdateStatus)
	app.Post("/orders/:id/verify-completion", requireSeller, limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.verify.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.OrderHandler.VerifyCompletion)

	// Seller surface
	app.Get("/seller/orders", requireSeller, deps.OrderHandler.SellerOrders)
	app.Get("/seller/listings", requireSeller, deps.ListingHandler.MyListings)
	app.Post("/seller/listings", requireSeller, deps.ListingHandler.Create)
	app.Patch("/seller/listings/:id", requireSeller, deps.ListingHandler.Update)

	// Admin oversight
	app.Get("/admin/orders", requireAdmin, deps.OrderHandler.AdminOrders)

	// Reviews
	app.Get("/reviews/eligible", requireUser, deps.ReviewHandler.Eligible)
	app.Post("/reviews", requireUser, deps.ReviewHandler.Submit)

	// Notifications (in-app poll)
	app.Get("/notifications", requireUser, deps.NotificationHandler.List)
	app.Post("/notifications/:id/read", requireUser, deps.NotificationHandler.MarkRead)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
