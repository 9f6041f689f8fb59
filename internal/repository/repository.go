// Copyright (c) 2026 Alexander G.
// Author: Alexander G. (Samsonix)
// License: MIT
// Project: Pangea eSIM Data Service - Repositories

// Package repository implements the cache-then-network orchestration
// between the tenant API, the local caches, and the change hub. Reads
// return the best available cached snapshot immediately; every read
// also kicks off a detached background refresh that updates the cache
// and announces fresher data through the hub.
package repository

import (
	"context"

	"pangea-go-server/internal/models"
)

// CountryAPI is the slice of the tenant client the country catalog needs.
type CountryAPI interface {
	GetCountries(ctx context.Context) ([]models.Country, error)
}

// PackageAPI is the slice of the tenant client the package catalog needs.
type PackageAPI interface {
	GetPackages(ctx context.Context, countryName string) ([]models.Package, error)
	GetPackage(ctx context.Context, packageID string) (*models.Package, error)
}

// ESimAPI is the slice of the tenant client the eSIM inventory needs.
type ESimAPI interface {
	GetESims(ctx context.Context) ([]models.ESim, error)
	ActivateESim(ctx context.Context, esimID string) (models.ESim, error)
	GetUsage(ctx context.Context, esimID string) (models.ESimUsage, error)
}
