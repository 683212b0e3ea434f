package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hostelmart/internal/services"
	"hostelmart/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cv)
}

type cartAddReq struct {
	ListingID string `json:"listingId"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	var req cartAddReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	listingID, ok := validate.ID(req.ListingID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing listingId"})
	}
	qty := validate.Qty(strconv.Itoa(req.Qty))
	if err := h.Cart.Add(u.ID, listingID, qty); err != nil {
		return fail(c, "cart.add", err)
	}
	return h.View(c)
}

type cartSetReq struct {
	Qty int `json:"qty"`
}

func (h *CartHandler) SetQty(c *fiber.Ctx) error {
	u := currentUser(c)
	listingID, ok := validate.ID(c.Params("listingId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}
	var req cartSetReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if req.Qty > 50 {
		req.Qty = 50
	} // clamp to avoid abuse
	if err := h.Cart.SetQty(u.ID, listingID, req.Qty); err != nil {
		return fail(c, "cart.set", err)
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := currentUser(c)
	listingID, ok := validate.ID(c.Params("listingId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}
	if err := h.Cart.Remove(u.ID, listingID); err != nil {
		return fail(c, "cart.remove", err)
	}
	return h.View(c)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Cart.Clear(u.ID); err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
