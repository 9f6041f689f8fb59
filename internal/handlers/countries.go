package handlers

import (
	"pangea-go-server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCountries handles GET /api/countries?geography=&search=
func (h *Handler) GetCountries(c *fiber.Ctx) error {
	geography := models.ParseGeography(c.Query("geography"))
	search := c.Query("search")

	countries, err := h.Countries.FetchCountries(c.Context(), geography, search)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": countries})
}
