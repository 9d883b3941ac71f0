// clients.go - Active-client tracking over a connectionless polling protocol
package api

import (
	"sync"
	"time"

	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
)

// ClientWindow is how long a source IP counts as active after its last
// request. The web UI polls rather than holding a socket, so "active"
// is a sliding window, not a connection count.
const ClientWindow = 30 * time.Second

// ClientTable records (source IP -> last seen) under its own lock so
// unrelated request paths never serialize behind telemetry bookkeeping.
// Entries are created on every request and pruned lazily on read.
type ClientTable struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
	now    func() time.Time
}

// NewClientTable creates a table with the standard window.
func NewClientTable() *ClientTable {
	return &ClientTable{
		seen:   make(map[string]time.Time),
		window: ClientWindow,
		now:    time.Now,
	}
}

// Touch records activity for an address.
func (t *ClientTable) Touch(addr string) {
	if addr == "" {
		return
	}
	t.mu.Lock()
	t.seen[addr] = t.now()
	t.mu.Unlock()
}

// Count sweeps entries older than the window and returns how many
// clients remain active.
func (t *ClientTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.window)
	for addr, last := range t.seen {
		if last.Before(cutoff) {
			delete(t.seen, addr)
		}
	}
	return len(t.seen)
}

// TrackClients is middleware recording every request's source IP and
// pushing the fresh count into the status provider, which is
// gateway-owned data and safe to update off the main loop.
func TrackClients(table *ClientTable, status *telemetry.StatusProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			table.Touch(c.RealIP())
			if status != nil {
				status.UpdateConnectedClients(table.Count())
			}
			return next(c)
		}
	}
}
