package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"hostelmart/internal/config"
	"hostelmart/internal/gateway"
	"hostelmart/internal/http/handlers"
	"hostelmart/internal/repos"
	"hostelmart/internal/services"
)

const testSecret = "hm_test_secret"

// newTestApp wires the real routes against a seeded in-memory database,
// mirroring the wiring in cmd/hostelmart.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// one in-memory database, shared across connections
	db.SetMaxOpenConns(1)

	cfg := config.Config{
		DBDSN:            ":memory:",
		PaymentKeyID:     "hm_test_key",
		PaymentKeySecret: testSecret,
		Currency:         "INR",
		DeliveryFee:      10,
		TaxRate:          5,
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}
	deps := handlers.NewDeps(db, cfg, gateway.NewSandbox(cfg.PaymentKeyID))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB
	app.Use(requestid.New())

	requireUser := handlers.RequireUser(authSvc)
	requireSeller := handlers.RequireSeller(authSvc)
	requireAdmin := handlers.RequireAdmin(authSvc)

	app.Post("/login", limiter.New(limiter.Config{Max: 5, Expiration: time.Minute}), authH.Login)
	app.Post("/logout", authH.Logout)

	app.Get("/listings", deps.ListingHandler.Browse)
	app.Get("/listings/:id", deps.ListingHandler.Detail)
	app.Get("/sellers/:id/reviews", deps.ReviewHandler.SellerReviews)

	api := app.Group("/api/v1")
	api.Get("/availability", limiter.New(limiter.Config{Max: 3, Expiration: time.Second}), deps.ListingHandler.Availability)

	app.Get("/cart", requireUser, deps.CartHandler.View)
	app.Post("/cart/items", requireUser, deps.CartHandler.Add)
	app.Patch("/cart/items/:listingId", requireUser, deps.CartHandler.SetQty)
	app.Delete("/cart/items/:listingId", requireUser, deps.CartHandler.Remove)
	app.Delete("/cart", requireUser, deps.CartHandler.Clear)

	app.Post("/payments/intent", requireUser, deps.CheckoutHandler.CreateIntent)
	app.Post("/checkout", requireUser, deps.CheckoutHandler.Place)

	app.Get("/orders", requireUser, deps.OrderHandler.MyOrders)
	app.Get("/orders/:id", requireUser, deps.OrderHandler.View)
	app.Patch("/orders/:id/status", requireSeller, deps.OrderHandler.UpdateStatus)
	app.Post("/orders/:id/verify-completion", requireSeller, deps.OrderHandler.VerifyCompletion)

	app.Get("/seller/orders", requireSeller, deps.OrderHandler.SellerOrders)
	app.Get("/seller/listings", requireSeller, deps.ListingHandler.MyListings)
	app.Post("/seller/listings", requireSeller, deps.ListingHandler.Create)
	app.Patch("/seller/listings/:id", requireSeller, deps.ListingHandler.Update)

	app.Get("/admin/orders", requireAdmin, deps.OrderHandler.AdminOrders)

	app.Get("/reviews/eligible", requireUser, deps.ReviewHandler.Eligible)
	app.Post("/reviews", requireUser, deps.ReviewHandler.Submit)

	app.Get("/notifications", requireUser, deps.NotificationHandler.List)
	app.Post("/notifications/:id/read", requireUser, deps.NotificationHandler.MarkRead)

	return app, db
}

func jsonReq(method, target string, body any, sid string) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// loginAs authenticates a seeded user and returns the session cookie.
func loginAs(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/login", fiber.Map{
		"email": email, "password": "Passw0rd!",
	}, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	sid := cookieValue(resp, "sid")
	if sid == "" {
		t.Fatal("login did not set sid cookie")
	}
	return sid
}

// checkoutAs runs the paid checkout flow for whatever is in the buyer's
// cart and returns the payment group id and per-order summaries.
func checkoutAs(t *testing.T, app *fiber.App, sid string) (string, []map[string]any) {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/payments/intent", nil, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("intent status %d", resp.StatusCode)
	}
	var intent struct {
		GatewayOrderID string `json:"gatewayOrderId"`
	}
	decodeBody(t, resp, &intent)

	payID := "pay_" + intent.GatewayOrderID
	resp, err = app.Test(jsonReq("POST", "/checkout", fiber.Map{
		"gatewayOrderId":   intent.GatewayOrderID,
		"gatewayPaymentId": payID,
		"signature":        gateway.Signature(testSecret, intent.GatewayOrderID, payID),
	}, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout status %d", resp.StatusCode)
	}
	var placed struct {
		PaymentGroupID string           `json:"paymentGroupId"`
		Orders         []map[string]any `json:"orders"`
	}
	decodeBody(t, resp, &placed)
	return placed.PaymentGroupID, placed.Orders
}
