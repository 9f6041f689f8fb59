package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"pangea-go-server/internal/cache"
	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"
)

const (
	// Ordinary fetches returning zero rows retry to mask backend
	// propagation delay; after a purchase signal we wait longer for the
	// new record to appear.
	maxEmptyRetries    = 3
	maxPurchaseRetries = 5
)

// ESimRepository serves the user's purchased eSIM inventory,
// cache-then-network with a disk-backed cache, plus the direct-network
// activate and usage operations.
type ESimRepository struct {
	api          ESimAPI
	store        *cache.ESimStore
	hub          *events.Hub
	validity     time.Duration
	retrySpacing time.Duration
	now          func() time.Time

	mu            sync.Mutex
	expecting     bool
	previousCount int
	lastCount     int
}

func NewESimRepository(api ESimAPI, store *cache.ESimStore, hub *events.Hub, validity, retrySpacing time.Duration) *ESimRepository {
	return &ESimRepository{
		api:          api,
		store:        store,
		hub:          hub,
		validity:     validity,
		retrySpacing: retrySpacing,
		now:          time.Now,
	}
}

// ExpectPurchase arms the post-purchase reconciliation mode: backend
// eSIM provisioning is asynchronous relative to payment confirmation,
// so subsequent fetches keep retrying until the inventory grows past
// the count observed before the purchase.
func (r *ESimRepository) ExpectPurchase() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expecting = true
	r.previousCount = r.lastCount
	log.Printf("[ESims] Expecting new eSIM (current count %d)", r.lastCount)
}

type esimsOutcome struct {
	esims []models.ESim
	err   error
}

// FetchESims returns the inventory sorted by (status rank asc,
// createdAt desc), retrying on a fixed interval when the result looks
// premature: empty in normal mode, not-yet-grown in purchase mode.
func (r *ESimRepository) FetchESims(ctx context.Context) ([]models.ESim, error) {
	attempt := 0
	for {
		esims, err := r.fetchOnce(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		expecting, previous := r.expecting, r.previousCount
		r.mu.Unlock()

		var retryNeeded bool
		var ceiling int
		if expecting {
			ceiling = maxPurchaseRetries
			retryNeeded = len(esims) <= previous
			if !retryNeeded {
				log.Printf("[ESims] New eSIM appeared after %d retries", attempt)
			}
		} else {
			ceiling = maxEmptyRetries
			retryNeeded = len(esims) == 0
		}

		if !retryNeeded || attempt >= ceiling {
			if expecting {
				r.mu.Lock()
				r.expecting = false
				r.mu.Unlock()
			}
			r.mu.Lock()
			r.lastCount = len(esims)
			r.mu.Unlock()
			models.SortESims(esims)
			return esims, nil
		}

		attempt++
		log.Printf("[ESims] Result premature, retrying (%d/%d)...", attempt, ceiling)
		select {
		case <-time.After(r.retrySpacing):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Activate triggers server-side activation and patches the single
// cached row with whatever the server returned. No status transition
// is invented locally.
func (r *ESimRepository) Activate(ctx context.Context, esimID string) (models.ESim, error) {
	esim, err := r.api.ActivateESim(ctx, esimID)
	if err != nil {
		return models.ESim{}, err
	}

	go func() {
		if err := r.store.Upsert(esim, r.now()); err != nil {
			log.Printf("[ESims] Cache update after activate failed: %v", err)
		}
	}()

	return esim, nil
}

// FetchUsage is always a live network lookup; usage is never cached.
func (r *ESimRepository) FetchUsage(ctx context.Context, esimID string) (models.ESimUsage, error) {
	return r.api.GetUsage(ctx, esimID)
}

// ClearCache wipes the disk cache. Used on logout.
func (r *ESimRepository) ClearCache() error {
	return r.store.Clear()
}

// fetchOnce runs one cache-then-network cycle: cached snapshot wins if
// present, the always-started background refresh replaces the cache and
// publishes esims.updated, and a cold cache blocks on that same fetch.
func (r *ESimRepository) fetchOnce(ctx context.Context) ([]models.ESim, error) {
	cached := r.fetchFromCache()

	result := make(chan esimsOutcome, 1)
	go r.refresh(result)

	if len(cached) > 0 {
		return cached, nil
	}

	outcome := <-result
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.esims, nil
}

func (r *ESimRepository) refresh(result chan<- esimsOutcome) {
	esims, err := r.api.GetESims(context.Background())
	result <- esimsOutcome{esims: esims, err: err}
	if err != nil {
		log.Printf("[ESims] Background refresh failed: %v", err)
		return
	}

	if err := r.store.ReplaceAll(esims, r.now()); err != nil {
		log.Printf("[ESims] Cache write failed: %v", err)
	}

	active := 0
	for _, e := range esims {
		if e.IsActive() {
			active++
		}
	}
	log.Printf("[ESims] Inventory refreshed: %d eSIMs, %d active", len(esims), active)

	sorted := make([]models.ESim, len(esims))
	copy(sorted, esims)
	models.SortESims(sorted)
	r.hub.Publish(events.ESimsUpdated, sorted)
}

func (r *ESimRepository) fetchFromCache() []models.ESim {
	freshSince := r.now().Add(-r.validity)
	esims, err := r.store.Fetch(freshSince)
	if err != nil {
		log.Printf("[ESims] Cache read failed, falling back to network: %v", err)
		return nil
	}
	return esims
}
