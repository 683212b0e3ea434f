package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "hostelmart/internal/log"
	"hostelmart/internal/services"
	"hostelmart/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
}

func (h *ListingHandler) Browse(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	rows, err := h.Listings.Browse(limit, offset)
	if err != nil {
		return fail(c, "listings.browse", err)
	}
	return c.JSON(fiber.Map{"listings": rows})
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}
	l, err := h.Listings.Get(id)
	if err != nil {
		return fail(c, "listings.detail", err)
	}
	return c.JSON(l)
}

// Availability serves the stock badge poll for listing pages.
func (h *ListingHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(strings.TrimSpace(c.Query("listingId")))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing listingId"})
	}
	avail, err := h.Listings.CheckAvailability(id)
	if err != nil {
		return fail(c, "listings.availability", err)
	}
	return c.JSON(avail)
}

func (h *ListingHandler) MyListings(c *fiber.Ctx) error {
	u := currentUser(c)
	rows, err := h.Listings.ForSeller(u.ID)
	if err != nil {
		return fail(c, "listings.mine", err)
	}
	return c.JSON(fiber.Map{"listings": rows})
}

type createListingReq struct {
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req createListingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok || req.Price < 0 || req.Stock < 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing fields"})
	}
	id, err := h.Listings.CreateListing(u.ID, productID, req.Price, req.Stock)
	if err != nil {
		return fail(c, "listings.create", err)
	}
	applog.Audit(c, "listings.create", map[string]any{"listing": id, "seller": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type updateListingReq struct {
	Price      *float64 `json:"price"`
	StockDelta int      `json:"stockDelta"`
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}
	var req updateListingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid price"})
	}
	if err := h.Listings.UpdateListing(id, u.ID, req.Price, req.StockDelta); err != nil {
		return fail(c, "listings.update", err)
	}
	applog.Audit(c, "listings.update", map[string]any{"listing": id, "seller": u.ID})
	return c.JSON(fiber.Map{"ok": true})
}
