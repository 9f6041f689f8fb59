package repository

import (
	"path/filepath"
	"testing"
	"time"

	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "repo.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CachedCountry{}, &models.CachedESim{}))
	return db
}

func newTestHub(t *testing.T) *events.Hub {
	t.Helper()
	hub := events.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

// eventually polls cond until it holds or the deadline passes. Used to
// observe the detached background refreshes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func awaitEvent(t *testing.T, c <-chan models.Event, eventType string) models.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-c:
			require.True(t, ok, "subscription closed while waiting for %s", eventType)
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}
