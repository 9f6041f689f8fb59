package repository

import (
	"context"
	"log"
	"time"

	"pangea-go-server/internal/cache"
	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"
)

// defaultRefreshInterval is how old the catalog may grow before a
// cache hit still triggers a background refresh. Younger caches are
// served without touching the network at all.
const defaultRefreshInterval = time.Hour

// CountryRepository serves the country catalog cache-then-network.
type CountryRepository struct {
	api             CountryAPI
	store           *cache.CountryStore
	hub             *events.Hub
	validity        time.Duration
	refreshInterval time.Duration
	now             func() time.Time
}

func NewCountryRepository(api CountryAPI, store *cache.CountryStore, hub *events.Hub, validity time.Duration) *CountryRepository {
	return &CountryRepository{
		api:             api,
		store:           store,
		hub:             hub,
		validity:        validity,
		refreshInterval: defaultRefreshInterval,
		now:             time.Now,
	}
}

type countriesOutcome struct {
	countries []models.Country
	err       error
}

// FetchCountries returns the filtered catalog. A fresh cached copy is
// returned immediately; only a cold or fully stale cache blocks on the
// network. A cache older than the refresh interval also kicks off a
// detached background refresh that replaces the disk cache wholesale
// and publishes countries.updated with the result filtered for the
// caller's parameters. The cold-cache path consumes that same network
// call instead of issuing a second one.
func (r *CountryRepository) FetchCountries(ctx context.Context, geography *models.Geography, search string) ([]models.Country, error) {
	cached := r.fetchFromCache(geography, search)

	if len(cached) > 0 && !r.refreshDue() {
		log.Printf("[Countries] Served %d countries from cache (fresh)", len(cached))
		return cached, nil
	}

	// Detached on purpose: dismissing the caller must not abort a cache
	// warm-up in progress.
	result := make(chan countriesOutcome, 1)
	go r.refresh(geography, search, result)

	if len(cached) > 0 {
		log.Printf("[Countries] Served %d countries from cache, refreshing in background", len(cached))
		return cached, nil
	}

	log.Println("[Countries] Cache cold, waiting for network...")
	outcome := <-result
	if outcome.err != nil {
		return nil, outcome.err
	}
	return models.FilterCountries(outcome.countries, geography, search), nil
}

// refreshDue reports whether the newest cached row is old enough to
// warrant a background refresh.
func (r *CountryRepository) refreshDue() bool {
	newest, ok := r.store.NewestUpdated()
	if !ok {
		return true
	}
	return r.now().Sub(newest) >= r.refreshInterval
}

// refresh fetches the entire unfiltered catalog. The server is never
// asked to filter; filtering is client-side so the cache always holds
// the full catalog.
func (r *CountryRepository) refresh(geography *models.Geography, search string, result chan<- countriesOutcome) {
	countries, err := r.api.GetCountries(context.Background())
	result <- countriesOutcome{countries: countries, err: err}
	if err != nil {
		log.Printf("[Countries] Background refresh failed: %v", err)
		return
	}

	if err := r.store.ReplaceAll(countries, r.now()); err != nil {
		log.Printf("[Countries] Cache write failed: %v", err)
	}
	r.hub.Publish(events.CountriesUpdated, models.FilterCountries(countries, geography, search))
}

// ClearCache wipes the catalog cache. Used on logout.
func (r *CountryRepository) ClearCache() error {
	return r.store.Clear()
}

// fetchFromCache reads the fresh window from disk and filters it.
// Disk faults degrade to "no cache".
func (r *CountryRepository) fetchFromCache(geography *models.Geography, search string) []models.Country {
	freshSince := r.now().Add(-r.validity)
	countries, err := r.store.Fetch(freshSince)
	if err != nil {
		log.Printf("[Countries] Cache read failed, falling back to network: %v", err)
		return nil
	}
	return models.FilterCountries(countries, geography, search)
}
