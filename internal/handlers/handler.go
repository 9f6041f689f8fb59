package handlers

import (
	"errors"

	"pangea-go-server/internal/events"
	"pangea-go-server/internal/repository"
	"pangea-go-server/internal/session"
	"pangea-go-server/internal/tenantapi"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the repositories over HTTP. This is the thin
// presentation stand-in: it reads synchronously and leaves re-rendering
// on fresh data to SSE subscribers.
type Handler struct {
	Countries *repository.CountryRepository
	Packages  *repository.PackageRepository
	ESims     *repository.ESimRepository
	Sessions  *session.Manager
	Hub       *events.Hub
}

func New(countries *repository.CountryRepository, packages *repository.PackageRepository, esims *repository.ESimRepository, sessions *session.Manager, hub *events.Hub) *Handler {
	return &Handler{
		Countries: countries,
		Packages:  packages,
		ESims:     esims,
		Sessions:  sessions,
		Hub:       hub,
	}
}

// respondError maps blocking-path failures. Background refresh errors
// never reach here; they are logged and dropped by the repositories.
func respondError(c *fiber.Ctx, err error) error {
	var statusErr *tenantapi.StatusError
	if errors.As(err, &statusErr) {
		return c.Status(statusErr.Code).JSON(fiber.Map{"error": err.Error()})
	}
	var netErr *tenantapi.NetworkError
	if errors.As(err, &netErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream unreachable"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
