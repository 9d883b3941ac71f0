// Package telemetry holds the thread-safe status and log providers the
// main loop writes into and the HTTP gateway reads from.
package telemetry

import (
	"sync"
	"time"

	"github.com/headsetnav/console/internal/models"
)

// StatusProvider holds one telemetry snapshot. The main loop replaces
// the whole snapshot at a fixed low rate; readers always get a
// consistent copy, never a partially-updated mix of fields.
type StatusProvider struct {
	mu   sync.RWMutex
	snap models.StatusSnapshot
}

// NewStatusProvider creates an empty provider.
func NewStatusProvider() *StatusProvider {
	return &StatusProvider{}
}

// Update replaces the entire snapshot atomically. ConnectedClients is
// gateway-owned, not main-loop-owned, so the current count survives the
// replacement regardless of what the caller put in that field.
func (p *StatusProvider) Update(snap models.StatusSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap.ConnectedClients = p.snap.ConnectedClients
	if snap.Timestamp == 0 {
		snap.Timestamp = time.Now().UnixMilli()
	}
	p.snap = snap
}

// UpdateConnectedClients is the narrower update usable from the gateway
// thread, independent of the main-loop cadence.
func (p *StatusProvider) UpdateConnectedClients(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.ConnectedClients = n
}

// GetStatus returns a copy of the current snapshot.
func (p *StatusProvider) GetStatus() models.StatusSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}
