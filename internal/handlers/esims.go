package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetESims handles GET /api/esims
func (h *Handler) GetESims(c *fiber.Ctx) error {
	esims, err := h.ESims.FetchESims(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": esims})
}

type activateBody struct {
	ESimID string `json:"esim_id"`
}

// ActivateESim handles POST /api/esim/activate
func (h *Handler) ActivateESim(c *fiber.Ctx) error {
	var body activateBody
	if err := c.BodyParser(&body); err != nil || body.ESimID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "esim_id is required"})
	}

	esim, err := h.ESims.Activate(c.Context(), body.ESimID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "esim": esim})
}

// GetUsage handles GET /api/esim/usage/:id
func (h *Handler) GetUsage(c *fiber.Ctx) error {
	usage, err := h.ESims.FetchUsage(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(usage)
}

// PurchaseComplete handles POST /api/purchase/complete. The payment
// collaborator calls this when a purchase settles; provisioning lags
// behind payment, so the repository starts watching for the new record.
func (h *Handler) PurchaseComplete(c *fiber.Ctx) error {
	h.ESims.ExpectPurchase()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "watching"})
}
