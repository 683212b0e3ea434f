package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "hostelmart/internal/log"
	"hostelmart/internal/services"
	"hostelmart/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// Eligible lists the caller's completed order lines still awaiting a review.
func (h *ReviewHandler) Eligible(c *fiber.Ctx) error {
	u := currentUser(c)
	pairs, err := h.Reviews.EligibleSellers(u.ID)
	if err != nil {
		return fail(c, "reviews.eligible", err)
	}
	return c.JSON(fiber.Map{"eligible": pairs})
}

type reviewReq struct {
	OrderID  string `json:"orderId"`
	SellerID string `json:"sellerId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	u := currentUser(c)
	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	orderID, ok1 := validate.ID(req.OrderID)
	sellerID, ok2 := validate.ID(req.SellerID)
	if !ok1 || !ok2 {
		applog.Security(c, "validation.fail", map[string]any{"field": "review"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid review fields"})
	}

	err := h.Reviews.Submit(u.ID, orderID, sellerID, req.Rating, validate.Comment(req.Comment))
	if err != nil {
		return fail(c, "reviews.submit", err)
	}
	applog.Audit(c, "reviews.submit", map[string]any{"order": orderID, "seller": sellerID, "rating": req.Rating})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

// SellerReviews is the public read side: a seller's active reviews + average.
func (h *ReviewHandler) SellerReviews(c *fiber.Ctx) error {
	sellerID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid seller id"})
	}
	rows, avg, err := h.Reviews.ForSeller(sellerID, c.QueryInt("limit", 50))
	if err != nil {
		return fail(c, "reviews.seller", err)
	}
	return c.JSON(fiber.Map{"reviews": rows, "averageRating": avg})
}
