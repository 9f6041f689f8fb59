package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pangea-go-server/internal/cache"
	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeESimAPI serves successive GetESims calls from a queue; the last
// entry repeats once the queue is exhausted.
type fakeESimAPI struct {
	mu          sync.Mutex
	fetches     int
	queue       [][]models.ESim
	fetchErr    error
	activated   models.ESim
	activateErr error
	usage       models.ESimUsage
}

func (f *fakeESimAPI) GetESims(ctx context.Context) ([]models.ESim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.queue) == 0 {
		return nil, nil
	}
	head := f.queue[0]
	if len(f.queue) > 1 {
		f.queue = f.queue[1:]
	}
	return head, nil
}

func (f *fakeESimAPI) ActivateESim(ctx context.Context, esimID string) (models.ESim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activateErr != nil {
		return models.ESim{}, f.activateErr
	}
	return f.activated, nil
}

func (f *fakeESimAPI) GetUsage(ctx context.Context, esimID string) (models.ESimUsage, error) {
	return f.usage, nil
}

func (f *fakeESimAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func testESim(id string, status models.ESimStatus, createdHoursAgo int) models.ESim {
	created := time.Now().Add(-time.Duration(createdHoursAgo) * time.Hour).Truncate(time.Second).UTC()
	return models.ESim{
		ESimID:      id,
		Status:      status,
		PackageName: "Mexico 5GB",
		CreatedAt:   &created,
	}
}

func newESimFixture(t *testing.T, api *fakeESimAPI, validity time.Duration) (*ESimRepository, *cache.ESimStore, *events.Hub) {
	store := cache.NewESimStore(newTestDB(t))
	hub := newTestHub(t)
	repo := NewESimRepository(api, store, hub, validity, time.Millisecond)
	return repo, store, hub
}

func TestFetchESims_ReturnsSortedInventory(t *testing.T) {
	api := &fakeESimAPI{queue: [][]models.ESim{{
		testESim("expired", models.ESimStatusExpired, 1),
		testESim("installed", models.ESimStatusInstalled, 2),
		testESim("ready", models.ESimStatusReady, 3),
	}}}
	repo, _, _ := newESimFixture(t, api, time.Hour)

	got, err := repo.FetchESims(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "ready", got[0].ESimID)
	assert.Equal(t, "installed", got[1].ESimID)
	assert.Equal(t, "expired", got[2].ESimID)
	assert.Equal(t, 1, api.fetchCount())
}

func TestFetchESims_ServesCacheThenRefreshes(t *testing.T) {
	api := &fakeESimAPI{queue: [][]models.ESim{{
		testESim("esim-1", models.ESimStatusReady, 2),
		testESim("esim-2", models.ESimStatusReady, 1),
	}}}
	repo, store, hub := newESimFixture(t, api, time.Hour)
	require.NoError(t, store.ReplaceAll([]models.ESim{testESim("esim-1", models.ESimStatusReady, 2)}, time.Now()))

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	got, err := repo.FetchESims(context.Background())
	require.NoError(t, err)
	// The cached snapshot wins; the fresher inventory arrives by event.
	assert.Len(t, got, 1)

	event := awaitEvent(t, sub.C, events.ESimsUpdated)
	published, ok := event.Data.([]models.ESim)
	require.True(t, ok)
	assert.Len(t, published, 2)

	eventually(t, func() bool {
		rows, err := store.Fetch(time.Now().Add(-time.Minute))
		return err == nil && len(rows) == 2
	}, "inventory cache never refreshed")
}

func TestFetchESims_RetriesWhileEmpty(t *testing.T) {
	inventory := []models.ESim{testESim("esim-1", models.ESimStatusReady, 1)}
	api := &fakeESimAPI{queue: [][]models.ESim{nil, nil, inventory}}
	// Zero validity keeps every attempt on the network path.
	repo, _, _ := newESimFixture(t, api, 0)

	got, err := repo.FetchESims(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, api.fetchCount())
}

func TestFetchESims_EmptyRetryCeiling(t *testing.T) {
	api := &fakeESimAPI{}
	repo, _, _ := newESimFixture(t, api, 0)

	got, err := repo.FetchESims(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	// Initial attempt plus the bounded retries.
	assert.Equal(t, 1+maxEmptyRetries, api.fetchCount())
}

func TestFetchESims_PurchaseModeWaitsForGrowth(t *testing.T) {
	existing := testESim("esim-1", models.ESimStatusInstalled, 24)
	purchased := testESim("esim-2", models.ESimStatusReady, 0)
	api := &fakeESimAPI{queue: [][]models.ESim{
		{existing},
		{existing},
		{existing, purchased},
	}}
	repo, _, _ := newESimFixture(t, api, 0)

	repo.mu.Lock()
	repo.lastCount = 1
	repo.mu.Unlock()
	repo.ExpectPurchase()

	got, err := repo.FetchESims(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "esim-2", got[0].ESimID)
	assert.Equal(t, 3, api.fetchCount())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.False(t, repo.expecting)
	assert.Equal(t, 2, repo.lastCount)
}

func TestFetchESims_PurchaseRetryCeiling(t *testing.T) {
	existing := testESim("esim-1", models.ESimStatusInstalled, 24)
	api := &fakeESimAPI{queue: [][]models.ESim{{existing}}}
	repo, _, _ := newESimFixture(t, api, 0)

	repo.mu.Lock()
	repo.lastCount = 1
	repo.mu.Unlock()
	repo.ExpectPurchase()

	got, err := repo.FetchESims(context.Background())
	require.NoError(t, err)
	// The unchanged inventory is returned once the retries run out.
	assert.Len(t, got, 1)
	assert.Equal(t, 1+maxPurchaseRetries, api.fetchCount())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.False(t, repo.expecting)
}

func TestFetchESims_NoRetryOnError(t *testing.T) {
	api := &fakeESimAPI{fetchErr: errors.New("upstream down")}
	repo, _, _ := newESimFixture(t, api, 0)

	_, err := repo.FetchESims(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, api.fetchCount())
}

func TestFetchESims_ContextCancelsRetryWait(t *testing.T) {
	api := &fakeESimAPI{}
	store := cache.NewESimStore(newTestDB(t))
	repo := NewESimRepository(api, store, newTestHub(t), 0, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := repo.FetchESims(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, api.fetchCount())
}

func TestActivate_PatchesOnlyTargetRow(t *testing.T) {
	target := testESim("esim-1", models.ESimStatusReady, 2)
	other := testESim("esim-2", models.ESimStatusReady, 1)

	activated := target
	activated.Status = models.ESimStatusInstalled
	api := &fakeESimAPI{activated: activated}
	repo, store, _ := newESimFixture(t, api, time.Hour)
	require.NoError(t, store.ReplaceAll([]models.ESim{target, other}, time.Now()))

	got, err := repo.Activate(context.Background(), "esim-1")
	require.NoError(t, err)
	assert.Equal(t, models.ESimStatusInstalled, got.Status)

	eventually(t, func() bool {
		rows, err := store.Fetch(time.Now().Add(-time.Minute))
		if err != nil || len(rows) != 2 {
			return false
		}
		byID := map[string]models.ESim{rows[0].ESimID: rows[0], rows[1].ESimID: rows[1]}
		return byID["esim-1"].Status == models.ESimStatusInstalled &&
			byID["esim-2"].Status == models.ESimStatusReady
	}, "cache row never patched")
}

func TestActivate_ErrorPropagates(t *testing.T) {
	api := &fakeESimAPI{activateErr: errors.New("already activated")}
	repo, _, _ := newESimFixture(t, api, time.Hour)

	_, err := repo.Activate(context.Background(), "esim-1")
	require.Error(t, err)
}

func TestFetchUsage_AlwaysLive(t *testing.T) {
	api := &fakeESimAPI{usage: models.ESimUsage{
		ESimID: "esim-1",
		Usage:  models.UsageData{Data: models.UsageDetails{AllowedData: 5120, RemainingData: 120}},
	}}
	repo, _, _ := newESimFixture(t, api, time.Hour)

	usage, err := repo.FetchUsage(context.Background(), "esim-1")
	require.NoError(t, err)
	assert.Equal(t, 5000, usage.Usage.Data.DataUsedMB())
}

func TestClearCacheWipesInventory(t *testing.T) {
	api := &fakeESimAPI{}
	repo, store, _ := newESimFixture(t, api, time.Hour)
	require.NoError(t, store.ReplaceAll([]models.ESim{testESim("esim-1", models.ESimStatusReady, 1)}, time.Now()))

	require.NoError(t, repo.ClearCache())

	rows, err := store.Fetch(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
