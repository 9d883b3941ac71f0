package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/headsetnav/console/internal/models"
)

// LogCapacity is the fixed size of the log ring; the oldest entry is
// evicted first once full.
const LogCapacity = 500

// mirrorBuffer bounds the console mirror queue. A full queue drops the
// mirror copy, never the collected entry.
const mirrorBuffer = 256

// LogCollector is a bounded, deduplicating log buffer written from any
// goroutine and read by the gateway. Consecutive identical entries
// (message, level, call site) fold into one entry with an incremented
// repeat count.
//
// Entries can optionally mirror to a console sink. The sink runs on a
// single goroutine captured at construction, since host console/UI
// sinks are not safe to call from arbitrary threads; Log only posts to
// the queue.
type LogCollector struct {
	mu      sync.Mutex
	entries []*models.LogEntry // oldest first
	mirror  chan models.LogEntry
	done    chan struct{}
}

// NewLogCollector creates a collector with no console mirror.
func NewLogCollector() *LogCollector {
	return &LogCollector{}
}

// NewLogCollectorWithMirror creates a collector that mirrors every new
// entry to sink from a dedicated goroutine. Call Close to stop it.
func NewLogCollectorWithMirror(sink func(models.LogEntry)) *LogCollector {
	c := &LogCollector{
		mirror: make(chan models.LogEntry, mirrorBuffer),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case e := <-c.mirror:
				sink(e)
			case <-c.done:
				return
			}
		}
	}()
	return c
}

// Close stops the mirror goroutine, if any.
func (c *LogCollector) Close() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// Log records an entry at the given level.
func (c *LogCollector) Log(level models.LogLevel, message, callSite string) {
	c.append(&models.LogEntry{
		Message:     message,
		Level:       level,
		CallSite:    callSite,
		TimestampMs: time.Now().UnixMilli(),
		RepeatCount: 1,
	})
}

// LogWithStack records an error-class entry carrying a stack trace.
func (c *LogCollector) LogWithStack(level models.LogLevel, message, stackTrace, callSite string) {
	c.append(&models.LogEntry{
		Message:     message,
		StackTrace:  stackTrace,
		Level:       level,
		CallSite:    callSite,
		TimestampMs: time.Now().UnixMilli(),
		RepeatCount: 1,
	})
}

// Info records an informational entry.
func (c *LogCollector) Info(message, callSite string) {
	c.Log(models.LogLevelInfo, message, callSite)
}

// Warning records a warning entry.
func (c *LogCollector) Warning(message, callSite string) {
	c.Log(models.LogLevelWarning, message, callSite)
}

// Error records an error entry.
func (c *LogCollector) Error(message, callSite string) {
	c.Log(models.LogLevelError, message, callSite)
}

// Infof records a formatted informational entry.
func (c *LogCollector) Infof(callSite, format string, args ...interface{}) {
	c.Info(fmt.Sprintf(format, args...), callSite)
}

func (c *LogCollector) append(entry *models.LogEntry) {
	c.mu.Lock()

	if n := len(c.entries); n > 0 && c.entries[n-1].SameSource(entry) {
		last := c.entries[n-1]
		last.RepeatCount++
		last.TimestampMs = entry.TimestampMs
		c.mu.Unlock()
		return
	}

	c.entries = append(c.entries, entry)
	if len(c.entries) > LogCapacity {
		// Evict oldest; copy down so the backing array does not pin
		// evicted entries forever.
		copy(c.entries, c.entries[1:])
		c.entries = c.entries[:LogCapacity]
	}
	c.mu.Unlock()

	if c.mirror != nil {
		select {
		case c.mirror <- *entry:
		default:
		}
	}
}

// GetRecentLogs returns up to n most recent entries, oldest first.
// n <= 0 returns everything.
func (c *LogCollector) GetRecentLogs(n int) []models.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := 0
	if n > 0 && len(c.entries) > n {
		start = len(c.entries) - n
	}

	out := make([]models.LogEntry, 0, len(c.entries)-start)
	for _, e := range c.entries[start:] {
		out = append(out, *e)
	}
	return out
}

// ClearLogs empties the buffer.
func (c *LogCollector) ClearLogs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Len returns the number of distinct entries currently buffered.
func (c *LogCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
