package reactive

import (
	"context"
	"testing"
	"time"

	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"

	"github.com/reactivex/rxgo/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *events.Hub {
	t.Helper()
	hub := events.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func nextEvent(t *testing.T, items <-chan rxgo.Item) models.Event {
	t.Helper()
	select {
	case item, ok := <-items:
		require.True(t, ok, "stream closed while waiting for event")
		require.False(t, item.Error(), "unexpected stream error: %v", item.E)
		event, ok := item.V.(models.Event)
		require.True(t, ok)
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return models.Event{}
	}
}

func TestFromHub_DeliversAllTypesWhenUnfiltered(t *testing.T) {
	hub := startHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items := FromHub(ctx, hub).Events()

	hub.Publish(events.CountriesUpdated, nil)
	hub.Publish(events.ESimsUpdated, nil)

	assert.Equal(t, events.CountriesUpdated, nextEvent(t, items).Type)
	assert.Equal(t, events.ESimsUpdated, nextEvent(t, items).Type)
}

func TestFromHub_FiltersToRequestedTypes(t *testing.T) {
	hub := startHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items := FromHub(ctx, hub, events.ESimsUpdated).Events()

	hub.Publish(events.CountriesUpdated, nil)
	hub.Publish(events.PackagesUpdated, nil)
	hub.Publish(events.ESimsUpdated, []models.ESim{{ESimID: "esim-1"}})

	event := nextEvent(t, items)
	assert.Equal(t, events.ESimsUpdated, event.Type)
	esims, ok := event.Data.([]models.ESim)
	require.True(t, ok)
	require.Len(t, esims, 1)

	// Nothing else sneaks through.
	select {
	case item := <-items:
		t.Fatalf("unexpected extra item: %+v", item.V)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFromHub_CancelClosesStream(t *testing.T) {
	hub := startHub(t)
	ctx, cancel := context.WithCancel(context.Background())

	items := FromHub(ctx, hub, events.ESimsUpdated).Events()
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-items:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream never closed after cancellation")
		}
	}
}

func TestFromHub_HubCloseClosesStream(t *testing.T) {
	hub := events.NewHub()
	go hub.Run()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items := FromHub(ctx, hub).Events()
	hub.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-items:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream never closed after hub shutdown")
		}
	}
}
