package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetPackages handles GET /api/packages?country=
func (h *Handler) GetPackages(c *fiber.Ctx) error {
	country := c.Query("country")
	if country == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "country is required"})
	}

	packages, err := h.Packages.FetchPackages(c.Context(), country)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": packages})
}

// GetPackage handles GET /api/packages/:id
func (h *Handler) GetPackage(c *fiber.Ctx) error {
	pkg, err := h.Packages.FetchPackage(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if pkg == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "package not found"})
	}

	return c.JSON(fiber.Map{"data": pkg})
}
