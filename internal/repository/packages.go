package repository

import (
	"context"
	"log"
	"time"

	"pangea-go-server/internal/cache"
	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"
)

// PackageRepository serves per-country package listings. Packages are
// never written to disk; they live in the in-memory timed cache keyed
// by country name, which has its own lock and never contends with the
// catalog stores.
type PackageRepository struct {
	api   PackageAPI
	cache *cache.TimedCache[string, []models.Package]
	hub   *events.Hub
}

func NewPackageRepository(api PackageAPI, hub *events.Hub, validity time.Duration) *PackageRepository {
	return &PackageRepository{
		api:   api,
		cache: cache.NewTimedCache[string, []models.Package](validity),
		hub:   hub,
	}
}

type packagesOutcome struct {
	packages []models.Package
	err      error
}

// FetchPackages returns the packages for one country. A hit within the
// TTL is served straight from memory; a miss or expired entry blocks on
// the network fetch, which also repopulates the cache and publishes
// packages.updated.
func (r *PackageRepository) FetchPackages(ctx context.Context, countryName string) ([]models.Package, error) {
	if cached, hit := r.cache.Get(countryName); hit {
		log.Printf("[Packages] Served %d packages for %q from cache", len(cached), countryName)
		return cached, nil
	}

	result := make(chan packagesOutcome, 1)
	go r.refresh(countryName, result)

	outcome := <-result
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.packages, nil
}

// FetchPackage looks a single package up by id directly against the
// network; single-package lookups are not cached. Returns nil when the
// id is unknown, which is not an error.
func (r *PackageRepository) FetchPackage(ctx context.Context, packageID string) (*models.Package, error) {
	return r.api.GetPackage(ctx, packageID)
}

// ClearCache drops all cached package listings.
func (r *PackageRepository) ClearCache() {
	r.cache.Clear()
}

func (r *PackageRepository) refresh(countryName string, result chan<- packagesOutcome) {
	packages, err := r.api.GetPackages(context.Background(), countryName)
	result <- packagesOutcome{packages: packages, err: err}
	if err != nil {
		log.Printf("[Packages] Background refresh for %q failed: %v", countryName, err)
		return
	}

	r.cache.Put(countryName, packages)
	r.hub.Publish(events.PackagesUpdated, models.PackagesPayload{
		Country:  countryName,
		Packages: packages,
	})
}
