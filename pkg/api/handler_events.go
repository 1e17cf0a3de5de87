package api

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// streamEventsHandler handles GET /api/v1/events/stream: a minimal SSE feed
// over the in-process Event Bus (SPEC_FULL.md §8 "Event stream ... minimal
// SSE endpoint ... WebSocket/SSE framing is boundary, outside the core").
func (s *Server) streamEventsHandler(c *gin.Context) {
	ch, subID := s.bus.Subscribe()
	defer s.bus.Unsubscribe(subID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case e, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(e)
			if err != nil {
				return true
			}
			c.SSEvent(string(e.Kind), json.RawMessage(payload))
			return true
		}
	})
}
