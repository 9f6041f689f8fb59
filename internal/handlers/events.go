// Copyright (c) 2026 Alexander G.
// Author: Alexander G. (Samsonix)
// License: MIT
// Project: Pangea eSIM Data Service - SSE

package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"pangea-go-server/internal/models"
	"pangea-go-server/internal/reactive"

	"github.com/gofiber/fiber/v2"
)

// StreamEvents handles GET /api/events. Streams hub events as SSE,
// optionally restricted with ?type=countries.updated,esims.updated.
func (h *Handler) StreamEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	var types []string
	if raw := c.Query("type"); raw != "" {
		types = strings.Split(raw, ",")
	}
	hub := h.Hub

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// The fiber context is recycled once this handler returns, so
		// the stream runs on its own cancellable context.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		stream := reactive.FromHub(ctx, hub, types...)
		items := stream.Events()

		// Initial event so the client knows the stream is live.
		fmt.Fprintf(w, "event: connection\ndata: \"ok\"\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case item, open := <-items:
				if !open {
					return
				}
				if item.Error() {
					log.Printf("[SSE] Stream error: %v", item.E)
					continue
				}
				event, ok := item.V.(models.Event)
				if !ok {
					continue
				}
				data, err := json.Marshal(event.Data)
				if err != nil {
					log.Printf("[SSE] Error marshalling event data: %v", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
				if err := w.Flush(); err != nil {
					// Write error, most likely the client disconnected.
					return
				}
			case <-time.After(30 * time.Second):
				fmt.Fprintf(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
