package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hostelmart/internal/services"
	"hostelmart/internal/validate"
)

type NotificationHandler struct {
	Notify *services.NotifyService
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	unreadOnly := c.QueryBool("unread", false)
	rows, err := h.Notify.List(u.ID, unreadOnly)
	if err != nil {
		return fail(c, "notifications.list", err)
	}
	return c.JSON(fiber.Map{"notifications": rows})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification id"})
	}
	if err := h.Notify.MarkRead(id, u.ID); err != nil {
		return fail(c, "notifications.read", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
