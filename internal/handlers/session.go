package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type sessionBody struct {
	Token string `json:"token"`
}

// SetSession handles POST /api/session. The surrounding app performs
// the actual login upstream and hands the resulting JWT over here.
func (h *Handler) SetSession(c *fiber.Ctx) error {
	var body sessionBody
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	h.Sessions.Set(body.Token)
	return c.JSON(fiber.Map{"valid": h.Sessions.Valid()})
}

// ClearSession handles DELETE /api/session. Logout drops the token and
// wipes every cache holding data fetched under it.
func (h *Handler) ClearSession(c *fiber.Ctx) error {
	h.Sessions.Clear()

	if err := h.ESims.ClearCache(); err != nil {
		log.Printf("[Session] eSIM cache wipe failed: %v", err)
	}
	h.Packages.ClearCache()
	if err := h.Countries.ClearCache(); err != nil {
		log.Printf("[Session] Country cache wipe failed: %v", err)
	}

	return c.JSON(fiber.Map{"status": "logged out"})
}
