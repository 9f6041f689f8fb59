// Copyright (c) 2026 Alexander G.
// Author: Alexander G. (Samsonix)
// License: MIT
// Project: Pangea eSIM Data Service

package routes

import (
	"pangea-go-server/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New())

	api := app.Group("/api")

	// Catalog
	api.Get("/countries", h.GetCountries)
	api.Get("/packages", h.GetPackages)
	api.Get("/packages/:id", h.GetPackage)

	// Inventory
	api.Get("/esims", h.GetESims)
	api.Post("/esim/activate", h.ActivateESim)
	api.Get("/esim/usage/:id", h.GetUsage)
	api.Post("/purchase/complete", h.PurchaseComplete)

	// Session
	api.Post("/session", h.SetSession)
	api.Delete("/session", h.ClearSession)

	// Change notifications
	api.Get("/events", h.StreamEvents)
}
