// websocket.go - Live status push over WebSocket
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
)

// statusPushInterval matches the main loop's status cadence; pushing
// faster would only repeat identical snapshots.
const statusPushInterval = 333 * time.Millisecond

const wsWriteTimeout = 5 * time.Second

// StatusWebSocketHandler pushes the status snapshot to dashboard
// clients that prefer a socket over polling /api/status. It reads from
// the gateway side only; the main loop is untouched.
type StatusWebSocketHandler struct {
	status   *telemetry.StatusProvider
	upgrader websocket.Upgrader
}

// NewStatusWebSocketHandler creates the websocket handler.
func NewStatusWebSocketHandler(status *telemetry.StatusProvider) *StatusWebSocketHandler {
	return &StatusWebSocketHandler{
		status: status,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The config server is LAN-only and unauthenticated;
			// origin filtering would not add anything.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleStatusSocket upgrades the connection and streams snapshots
// until the client goes away.
func (h *StatusWebSocketHandler) HandleStatusSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // Upgrade already wrote the HTTP error
	}
	defer conn.Close()

	// Reader goroutine: we expect nothing from the client, but reading
	// is what surfaces close frames and dead peers.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(h.status.GetStatus()); err != nil {
				return nil
			}
		}
	}
}
