// Package session holds the current auth token for API calls. Durable
// credential storage is owned by the surrounding app; this layer only
// tracks the in-memory token and its expiry.
package session

import (
	"log"
	"sync"
	"time"

	"pangea-go-server/internal/events"

	"github.com/golang-jwt/jwt/v5"
)

type Manager struct {
	mu        sync.RWMutex
	token     string
	expiresAt *time.Time
	hub       *events.Hub
}

// NewManager creates a session manager. hub may be nil when nobody
// cares about session-change events.
func NewManager(hub *events.Hub) *Manager {
	return &Manager{hub: hub}
}

// Set stores a new JWT and records its expiry claim, if present. The
// token is not verified here; the server is the authority on validity.
func (m *Manager) Set(token string) {
	var expiresAt *time.Time

	parser := jwt.NewParser()
	if parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{}); err == nil {
		if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
			expiresAt = &exp.Time
		}
	} else {
		log.Printf("[Session] Token stored without expiry: %v", err)
	}

	m.mu.Lock()
	m.token = token
	m.expiresAt = expiresAt
	m.mu.Unlock()

	m.notify()
}

// Token returns the current JWT, empty when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Valid reports whether a non-expired token is present.
func (m *Manager) Valid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return false
	}
	if m.expiresAt != nil && time.Now().After(*m.expiresAt) {
		return false
	}
	return true
}

// Clear drops the session. Called on logout and on a 401 from the API.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.expiresAt = nil
	m.mu.Unlock()

	m.notify()
}

func (m *Manager) notify() {
	if m.hub != nil {
		m.hub.Publish(events.SessionChanged, m.Valid())
	}
}
