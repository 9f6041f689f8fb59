// Copyright (c) 2026 Alexander G.
// Author: Alexander G. (Samsonix)
// License: MIT
// Project: Pangea eSIM Data Service - Reactive Hub Bridge

// Package reactive bridges the change hub into rx streams for
// streaming consumers. Only the pipeline the SSE endpoint needs is
// exposed: bridge, type filter, delivery channel.
package reactive

import (
	"context"

	"pangea-go-server/internal/events"
	"pangea-go-server/internal/models"

	"github.com/reactivex/rxgo/v2"
)

// hubBuffer sits between the hub subscription and the rx pipeline; a
// burst beyond it drops at the hub, not here.
const hubBuffer = 100

// Stream is a live, optionally type-filtered view over hub events.
type Stream struct {
	observable rxgo.Observable
}

// FromHub bridges a hub subscription into a stream, restricted to the
// given event types when any are named. The subscription is released
// when ctx is cancelled or the hub closes the channel.
func FromHub(ctx context.Context, hub *events.Hub, types ...string) *Stream {
	ch := make(chan rxgo.Item, hubBuffer)
	sub := hub.Subscribe()

	go func() {
		defer close(ch)
		defer hub.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				select {
				case ch <- rxgo.Of(event):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	stream := &Stream{observable: rxgo.FromChannel(ch, rxgo.WithContext(ctx))}
	if len(types) == 0 {
		return stream
	}
	return stream.filterTypes(types)
}

func (s *Stream) filterTypes(types []string) *Stream {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	s.observable = s.observable.Filter(func(i interface{}) bool {
		event, ok := i.(models.Event)
		return ok && allowed[event.Type]
	})
	return s
}

// Events returns the delivery channel. It closes when the stream's
// context is cancelled or the hub shuts down.
func (s *Stream) Events() <-chan rxgo.Item {
	return s.observable.Observe()
}
