// Copyright (c) 2026 Alexander G.
// Author: Alexander G. (Samsonix)
// License: MIT
// Project: Pangea eSIM Data Service

package main

import (
	"log"

	"pangea-go-server/internal/cache"
	"pangea-go-server/internal/config"
	"pangea-go-server/internal/database"
	"pangea-go-server/internal/events"
	"pangea-go-server/internal/handlers"
	"pangea-go-server/internal/repository"
	"pangea-go-server/internal/routes"
	"pangea-go-server/internal/session"
	"pangea-go-server/internal/tenantapi"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// Connect to the local cache database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Could not open database: %v", err)
	}

	// Change notification hub (single delivery loop for all subscribers)
	hub := events.NewHub()
	go hub.Run()

	// Session + upstream API client
	sessions := session.NewManager(hub)
	api := tenantapi.NewClient(cfg.ApiBaseUrl, cfg.TenantAPIKey, sessions)

	// Disk-backed catalog stores share one DB handle; each store owns
	// its own replace ordering point.
	countryStore := cache.NewCountryStore(db)
	esimStore := cache.NewESimStore(db)

	// Repositories
	countryRepo := repository.NewCountryRepository(api, countryStore, hub, cfg.CountryCacheTTL)
	packageRepo := repository.NewPackageRepository(api, hub, cfg.PackageCacheTTL)
	esimRepo := repository.NewESimRepository(api, esimStore, hub, cfg.ESimCacheTTL, cfg.RetrySpacing)

	// Create and configure Fiber app
	app := fiber.New()
	routes.SetupRoutes(app, handlers.New(countryRepo, packageRepo, esimRepo, sessions, hub))

	// Start HTTP server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
