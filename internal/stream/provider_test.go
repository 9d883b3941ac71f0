package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/headsetnav/console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays a fixed sequence of frame numbers, advancing
// one step per CurrentFrame call and holding the last step forever.
type scriptedSource struct {
	mu     sync.Mutex
	script []int64
	pos    int
}

func (s *scriptedSource) CurrentFrame() (int64, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.script) == 0 {
		return 0, nil
	}
	n := s.script[s.pos]
	if s.pos < len(s.script)-1 {
		s.pos++
	}
	return n, []byte(fmt.Sprintf("jpeg-%d", n))
}

func (s *scriptedSource) MaxFrameRate() int { return 1000 }

func (s *scriptedSource) VideoModes() []models.VideoMode {
	return []models.VideoMode{{Width: 640, Height: 480, Framerate: 30}}
}

// lockedBuffer lets the test read while the stream loop writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var chunkRe = regexp.MustCompile(`--frame\r\nContent-Type: image/jpeg\r\nContent-Length: \d+\r\n\r\n(jpeg-\d+)\r\n`)

func TestStreamSendsEachFrameExactlyOnce(t *testing.T) {
	p := NewProvider()
	p.SetSource(&scriptedSource{script: []int64{1, 1, 2, 3, 3, 4}})

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}

	done := make(chan error, 1)
	go func() { done <- p.Stream(ctx, out) }()

	require.Eventually(t, func() bool {
		return len(chunkRe.FindAllStringSubmatch(out.String(), -1)) >= 4
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done, "cancellation is a clean close")

	matches := chunkRe.FindAllStringSubmatch(out.String(), -1)
	require.Len(t, matches, 4, "repeated frame numbers are never re-sent")
	assert.Equal(t, "jpeg-1", matches[0][1])
	assert.Equal(t, "jpeg-2", matches[1][1])
	assert.Equal(t, "jpeg-3", matches[2][1])
	assert.Equal(t, "jpeg-4", matches[3][1])
}

func TestStreamNoSource(t *testing.T) {
	p := NewProvider()
	err := p.Stream(context.Background(), &lockedBuffer{})
	assert.ErrorIs(t, err, ErrNoSource)
}

type failWriter struct{ writes int }

func (w *failWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestStreamWriteFailureTerminates(t *testing.T) {
	p := NewProvider()
	p.SetSource(&scriptedSource{script: []int64{1}})

	err := p.Stream(context.Background(), &failWriter{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSource)
	assert.Zero(t, p.ActiveStreams(), "counter decremented on failure exit")
}

func TestActiveStreamCounter(t *testing.T) {
	p := NewProvider()
	p.SetSource(&scriptedSource{script: []int64{1}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Stream(ctx, &lockedBuffer{}) }()

	require.Eventually(t, func() bool { return p.ActiveStreams() == 1 }, time.Second, time.Millisecond)

	cancel()
	<-done
	assert.Zero(t, p.ActiveStreams())
}

func TestVideoModes(t *testing.T) {
	p := NewProvider()

	_, ok := p.VideoModes()
	assert.False(t, ok)

	p.SetSource(&scriptedSource{script: []int64{1}})
	modes, ok := p.VideoModes()
	require.True(t, ok)
	require.Len(t, modes, 1)
	assert.Equal(t, 640, modes[0].Width)
}

func TestSyntheticSourceProducesMonotonicJPEGFrames(t *testing.T) {
	s := NewSyntheticSource(64, 48, 30, 75)

	n, data := s.CurrentFrame()
	assert.Zero(t, n)
	assert.Nil(t, data)

	s.Advance()
	n1, d1 := s.CurrentFrame()
	s.Advance()
	n2, d2 := s.CurrentFrame()

	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(2), n2)
	assert.Greater(t, n2, n1)

	// JPEG SOI marker
	require.GreaterOrEqual(t, len(d1), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, d1[:2])
	require.GreaterOrEqual(t, len(d2), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, d2[:2])
}
