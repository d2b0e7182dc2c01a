package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"vacuumworld/internal/domain"
)

const (
	defaultWatchInterval = 500 * time.Millisecond
	minWatchInterval     = 100 * time.Millisecond
	watchWriteTimeout    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// watchFrame is one pushed state update.
type watchFrame struct {
	SessionID string `json:"session_id"`
	domain.Snapshot
}

// Watch upgrades to a WebSocket and pushes state snapshots on a ticker
// until the session terminates, disappears, or the client goes away. It is
// a read-only observer: nothing it does mutates the session.
// GET /api/sessions/:session_id/watch?interval_ms=N
func (h *Handler) Watch(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("session_id")

	// Reject unknown ids before upgrading.
	if _, err := h.service.State(ctx, id); err != nil {
		return jsonError(c, err)
	}

	interval := defaultWatchInterval
	if raw := c.QueryParam("interval_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "interval_ms must be a positive integer"})
		}
		interval = time.Duration(ms) * time.Millisecond
		if interval < minWatchInterval {
			interval = minWatchInterval
		}
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("failed to upgrade watch socket: %v", err)
		return err
	}
	defer ws.Close()

	// Reader goroutine only to notice the client closing.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := h.service.State(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// Session deleted (or swept) underneath the watcher.
			ws.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session deleted"))
			return nil
		}
		if err != nil {
			return nil
		}

		ws.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
		if err := ws.WriteJSON(watchFrame{SessionID: id, Snapshot: snap}); err != nil {
			return nil
		}
		if snap.Finished {
			ws.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session finished"))
			return nil
		}

		select {
		case <-clientGone:
			return nil
		case <-ticker.C:
		}
	}
}
