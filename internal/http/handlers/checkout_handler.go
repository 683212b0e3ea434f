package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "hostelmart/internal/log"
	"hostelmart/internal/services"
	"hostelmart/internal/validate"
)

type CheckoutHandler struct {
	Payment  *services.PaymentService
	Checkout *services.CheckoutService
}

// CreateIntent opens a gateway order for the caller's cart total.
func (h *CheckoutHandler) CreateIntent(c *fiber.Ctx) error {
	u := currentUser(c)
	intent, err := h.Payment.CreateIntent(u.ID)
	if err != nil {
		return fail(c, "payment.intent", err)
	}
	applog.Audit(c, "payment.intent", map[string]any{
		"gateway_order": intent.GatewayOrderID, "amount": intent.Amount, "buyer": u.ID,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"gatewayOrderId": intent.GatewayOrderID,
		"amount":         intent.Amount,
		"currency":       intent.Currency,
	})
}

type checkoutReq struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`
	Hostel           string `json:"hostel"`
	Room             string `json:"room"`
}

// Place verifies the payment callback and splits the cart into per-seller
// orders.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)
	var req checkoutReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		applog.Security(c, "validation.fail", map[string]any{"field": "payment"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing payment fields"})
	}
	// Optional delivery override; empty means the buyer's profile address.
	hostel, room := "", ""
	if req.Hostel != "" {
		var ok bool
		if hostel, ok = validate.Hostel(req.Hostel); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "hostel"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid hostel"})
		}
	}
	if req.Room != "" {
		var ok bool
		if room, ok = validate.Room(req.Room); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "room"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid room"})
		}
	}

	orders, err := h.Checkout.Checkout(u.ID, req.GatewayOrderID, req.GatewayPaymentID, req.Signature, hostel, room)
	if err != nil {
		return fail(c, "checkout.place", err)
	}

	summaries := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, fiber.Map{
			"id":         o.ID,
			"sellerId":   o.SellerID,
			"productId":  o.ProductID,
			"qty":        o.Qty,
			"unitPrice":  o.UnitPrice,
			"totalPrice": o.TotalPrice,
			"status":     o.Status,
		})
	}
	applog.Audit(c, "checkout.place", map[string]any{
		"group": req.GatewayOrderID, "buyer": u.ID, "orders": len(orders),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"paymentGroupId": req.GatewayOrderID,
		"orders":         summaries,
	})
}
