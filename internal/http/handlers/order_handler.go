package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hostelmart/internal/domain"
	applog "hostelmart/internal/log"
	"hostelmart/internal/repos"
	"hostelmart/internal/services"
	"hostelmart/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// orderJSON shapes an order for the API. The delivery code is the buyer's
// secret: sellers only ever learn it from the buyer at the door, so it is
// stripped unless the caller owns the buyer side.
func orderJSON(o repos.OrderView, includeCode bool) fiber.Map {
	m := fiber.Map{
		"id":                   o.ID,
		"paymentGroupId":       o.PaymentGroupID,
		"buyerId":              o.BuyerID,
		"buyerName":            o.BuyerName,
		"sellerId":             o.SellerID,
		"sellerName":           o.SellerName,
		"listingId":            o.ListingID,
		"productId":            o.ProductID,
		"title":                o.Title,
		"qty":                  o.Qty,
		"unitPrice":            o.UnitPrice,
		"totalPrice":           o.TotalPrice,
		"status":               o.Status,
		"requiresVerification": o.RequiresVerification,
		"isVerified":           o.IsVerified,
		"deliveryHostel":       o.DeliveryHostel,
		"deliveryRoom":         o.DeliveryRoom,
		"createdAt":            o.CreatedAt,
		"acceptedAt":           o.AcceptedAt,
		"completedAt":          o.CompletedAt,
		"cancelledAt":          o.CancelledAt,
	}
	if includeCode {
		m["verificationCode"] = o.VerificationCode
	}
	return m
}

// MyOrders lists the caller's purchases, optionally one payment group.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	u := currentUser(c)
	group := strings.TrimSpace(c.Query("group"))
	orders, err := h.Orders.ListForBuyer(u.ID, group)
	if err != nil {
		return fail(c, "orders.history", err)
	}
	out := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderJSON(o, true))
	}
	return c.JSON(fiber.Map{"orders": out})
}

// SellerOrders lists incoming orders for the calling seller.
func (h *OrderHandler) SellerOrders(c *fiber.Ctx) error {
	u := currentUser(c)
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	orders, err := h.Orders.ListForSeller(u.ID, status)
	if err != nil {
		return fail(c, "orders.seller", err)
	}
	out := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderJSON(o, false))
	}
	return c.JSON(fiber.Map{"orders": out})
}

// AdminOrders lists recent orders across all sellers for dispute handling.
// Admins see the delivery code; they arbitrate stuck deliveries.
func (h *OrderHandler) AdminOrders(c *fiber.Ctx) error {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	orders, err := h.Orders.ListAll(status, c.QueryInt("limit"))
	if err != nil {
		return fail(c, "orders.admin", err)
	}
	out := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderJSON(o, true))
	}
	return c.JSON(fiber.Map{"orders": out})
}

// View returns one order to its buyer, its seller, or an admin.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, err := h.Orders.Get(oid)
	if err != nil {
		return fail(c, "orders.view", err)
	}
	switch {
	case u.ID == o.BuyerID, u.IsAdmin():
		return c.JSON(orderJSON(o, true))
	case u.ID == o.SellerID:
		return c.JSON(orderJSON(o, false))
	default:
		applog.Security(c, "access.denied.order", map[string]any{"order": oid})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus applies a seller transition: accepted, rejected, cancelled,
// or completed (legacy orders only; verified orders use verify-completion).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	to := strings.ToUpper(strings.TrimSpace(req.Status))
	switch to {
	case domain.OrderAccepted, domain.OrderRejected, domain.OrderCancelled, domain.OrderCompleted:
	default:
		applog.Security(c, "validation.fail", map[string]any{"field": "status"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}

	if err := h.Orders.Transition(oid, u.ID, to); err != nil {
		return fail(c, "orders.transition", err)
	}
	applog.Audit(c, "orders.transition", map[string]any{"order": oid, "seller": u.ID, "to": to})
	return c.JSON(fiber.Map{"ok": true, "status": to})
}

type verifyReq struct {
	VerificationCode string `json:"verificationCode"`
}

// VerifyCompletion checks the delivery code and completes the order.
func (h *OrderHandler) VerifyCompletion(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	var req verifyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	code, ok := validate.Code(req.VerificationCode)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "verificationCode"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code must be 6 digits"})
	}

	if err := h.Orders.VerifyCompletion(oid, u.ID, code); err != nil {
		return fail(c, "orders.verify", err)
	}
	applog.Audit(c, "orders.verify", map[string]any{"order": oid, "seller": u.ID})
	return c.JSON(fiber.Map{"ok": true, "status": domain.OrderCompleted})
}
