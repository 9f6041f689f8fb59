package events

import (
	"testing"
	"time"

	"pangea-go-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func waitForEvent(t *testing.T, c <-chan models.Event) models.Event {
	t.Helper()
	select {
	case event, ok := <-c:
		require.True(t, ok, "channel closed before event arrived")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return models.Event{}
	}
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := startHub(t)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	hub.Publish(CountriesUpdated, []models.Country{{CountryCode: "MX"}})

	event := waitForEvent(t, sub.C)
	assert.Equal(t, CountriesUpdated, event.Type)
	countries, ok := event.Data.([]models.Country)
	require.True(t, ok)
	require.Len(t, countries, 1)
}

func TestHub_FanOutToAllSubscribers(t *testing.T) {
	hub := startHub(t)
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	hub.Publish(ESimsUpdated, nil)

	assert.Equal(t, ESimsUpdated, waitForEvent(t, a.C).Type)
	assert.Equal(t, ESimsUpdated, waitForEvent(t, b.C).Type)
}

func TestHub_NoReplayForLateSubscribers(t *testing.T) {
	hub := startHub(t)

	early := hub.Subscribe()
	hub.Publish(PackagesUpdated, nil)
	waitForEvent(t, early.C)
	hub.Unsubscribe(early)

	late := hub.Subscribe()
	defer hub.Unsubscribe(late)

	select {
	case event := <-late.C:
		t.Fatalf("late subscriber got replayed event %q", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := startHub(t)
	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

// A subscriber that stops draining its channel misses events instead of
// wedging delivery to everyone else.
func TestHub_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := startHub(t)
	slow := hub.Subscribe()
	fast := hub.Subscribe()
	defer hub.Unsubscribe(slow)
	defer hub.Unsubscribe(fast)

	// Overflow the slow subscriber's buffer while draining fast.
	for i := 0; i < 20; i++ {
		hub.Publish(SessionChanged, i)
		waitForEvent(t, fast.C)
	}

	assert.LessOrEqual(t, len(slow.C), cap(slow.C))
}

func TestHub_CloseClosesSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	sub := hub.Subscribe()

	hub.Close()

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after hub close")
	}

	// Operations after close return instead of blocking.
	hub.Publish(CountriesUpdated, nil)
	hub.Unsubscribe(sub)
	hub.Close()
}
