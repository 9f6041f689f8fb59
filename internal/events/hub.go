// Copyright (c) 2026 Alexander G.
// Author: Alexander G. (Samsonix)
// License: MIT
// Project: Pangea eSIM Data Service - Change Notifier

// Package events provides the process-wide publish/subscribe hub used to
// tell presentation layers that fresher data is available.
package events

import (
	"log"
	"sync"

	"pangea-go-server/internal/models"

	"github.com/google/uuid"
)

// Event types published by the repositories.
const (
	CountriesUpdated = "countries.updated"
	PackagesUpdated  = "packages.updated"
	ESimsUpdated     = "esims.updated"
	SessionChanged   = "session.changed"
)

// Subscription is an explicit handle for one subscriber. Callers must
// Unsubscribe when done; there is no weak-reference magic.
type Subscription struct {
	ID uuid.UUID
	C  chan models.Event
}

// Hub manages the set of active subscribers and fans events out to them.
// All delivery happens on the hub's single run loop, so subscribers
// never race with their own mutations. Events published while nobody is
// subscribed are dropped; late subscribers get no replay.
type Hub struct {
	subscribers map[uuid.UUID]*Subscription
	broadcast   chan models.Event
	register    chan *Subscription
	unregister  chan uuid.UUID
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]*Subscription),
		broadcast:   make(chan models.Event, 16),
		register:    make(chan *Subscription),
		unregister:  make(chan uuid.UUID),
		stop:        make(chan struct{}),
	}
}

// Run starts the hub's event loop. Call in a goroutine.
func (h *Hub) Run() {
	log.Println("[EventHub] Starting hub...")
	for {
		select {
		case sub := <-h.register:
			h.subscribers[sub.ID] = sub
			log.Printf("[EventHub] Subscriber registered. Total: %d", len(h.subscribers))
		case id := <-h.unregister:
			if sub, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(sub.C)
				log.Printf("[EventHub] Subscriber removed. Total: %d", len(h.subscribers))
			}
		case event := <-h.broadcast:
			for _, sub := range h.subscribers {
				select {
				case sub.C <- event:
				default:
					// At-most-once: a subscriber that cannot keep up
					// misses the event rather than blocking delivery.
				}
			}
		case <-h.stop:
			for id, sub := range h.subscribers {
				delete(h.subscribers, id)
				close(sub.C)
			}
			return
		}
	}
}

// Close shuts the run loop down and closes all subscriber channels.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Subscribe registers a new subscriber and returns its handle.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ID: uuid.New(),
		C:  make(chan models.Event, 8),
	}
	select {
	case h.register <- sub:
	case <-h.stop:
		close(sub.C)
	}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	select {
	case h.unregister <- sub.ID:
	case <-h.stop:
	}
}

// Publish broadcasts an event to all currently-registered subscribers.
// Fire and forget: no delivery guarantee beyond at-most-once.
func (h *Hub) Publish(eventType string, data interface{}) {
	select {
	case h.broadcast <- models.Event{Type: eventType, Data: data}:
	case <-h.stop:
	}
}
