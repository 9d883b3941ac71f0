package telemetry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/headsetnav/console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusUpdateReplacesWholeSnapshot(t *testing.T) {
	p := NewStatusProvider()

	p.Update(models.StatusSnapshot{
		Position:   models.Vector3{X: 1, Y: 2, Z: 3},
		IsTracking: true,
		FPS:        72,
	})

	got := p.GetStatus()
	assert.Equal(t, models.Vector3{X: 1, Y: 2, Z: 3}, got.Position)
	assert.True(t, got.IsTracking)
	assert.NotZero(t, got.Timestamp, "Update stamps a timestamp when the caller left it zero")
}

func TestStatusConnectedClientsSurvivesUpdate(t *testing.T) {
	p := NewStatusProvider()

	p.UpdateConnectedClients(3)
	// Main-loop update carries a zero client count; the gateway-owned
	// value must survive the wholesale replacement.
	p.Update(models.StatusSnapshot{IsTracking: true})

	assert.Equal(t, 3, p.GetStatus().ConnectedClients)
}

func TestStatusConcurrentAccess(t *testing.T) {
	p := NewStatusProvider()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p.Update(models.StatusSnapshot{FrameCount: int64(n*1000 + j)})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = p.GetStatus()
			}
		}()
	}
	wg.Wait()
}

func TestLogDeduplication(t *testing.T) {
	c := NewLogCollector()

	for i := 0; i < 5; i++ {
		c.Warning("tracking lost", "PoseTracker")
	}

	logs := c.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, 5, logs[0].RepeatCount)
	assert.Equal(t, models.LogLevelWarning, logs[0].Level)
}

func TestLogDedupRequiresSameSource(t *testing.T) {
	c := NewLogCollector()

	c.Info("ready", "A")
	c.Info("ready", "B") // different call site, no fold
	c.Error("ready", "B") // different level, no fold

	assert.Equal(t, 3, c.Len())
}

func TestLogRingEviction(t *testing.T) {
	c := NewLogCollector()

	for i := 0; i < LogCapacity+1; i++ {
		c.Info(fmt.Sprintf("entry %d", i), "test")
	}

	logs := c.GetRecentLogs(0)
	require.Len(t, logs, LogCapacity)
	assert.Equal(t, "entry 1", logs[0].Message, "oldest entry evicted first")
	assert.Equal(t, fmt.Sprintf("entry %d", LogCapacity), logs[len(logs)-1].Message)
}

func TestGetRecentLogsOrderAndLimit(t *testing.T) {
	c := NewLogCollector()

	for i := 0; i < 10; i++ {
		c.Info(fmt.Sprintf("entry %d", i), "test")
	}

	logs := c.GetRecentLogs(2)
	require.Len(t, logs, 2)
	// The two most recent, oldest of the two first
	assert.Equal(t, "entry 8", logs[0].Message)
	assert.Equal(t, "entry 9", logs[1].Message)
}

func TestClearLogs(t *testing.T) {
	c := NewLogCollector()
	c.Info("something", "test")
	c.ClearLogs()
	assert.Zero(t, c.Len())
}

func TestLogMirrorReceivesEntries(t *testing.T) {
	var mu sync.Mutex
	var seen []models.LogEntry
	c := NewLogCollectorWithMirror(func(e models.LogEntry) {
		mu.Lock()
		seen = append(seen, e)
		mu.Unlock()
	})
	defer c.Close()

	c.Info("booted", "main")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0].Message == "booted"
	}, time.Second, 5*time.Millisecond)
}

func TestLogConcurrentWriters(t *testing.T) {
	c := NewLogCollector()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Info(fmt.Sprintf("writer %d", n), "test")
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, e := range c.GetRecentLogs(0) {
		total += e.RepeatCount
	}
	assert.Equal(t, 800, total)
}
