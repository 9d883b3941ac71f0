// Package stream implements the MJPEG live-view protocol over
// multipart/x-mixed-replace and the latest-frame handoff from the
// capture side.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/headsetnav/console/internal/models"
)

// FrameSource is the external collaborator producing successive encoded
// video frames. CurrentFrame hands back a reference to the most recent
// frame; frames are replaced, never mutated in place, so a captured
// reference stays consistent even if a new frame lands mid-read.
type FrameSource interface {
	// CurrentFrame returns the monotonic frame number and JPEG payload
	// of the newest frame. A zero-length payload means no frame yet.
	CurrentFrame() (frameNumber int64, jpeg []byte)
	// MaxFrameRate is the per-viewer pacing ceiling in frames/second.
	MaxFrameRate() int
	// VideoModes lists the capture modes the source advertises.
	VideoModes() []models.VideoMode
}

// ErrNoSource is returned by Stream when no frame source is configured.
// The gateway maps it to 503 "The stream is unavailable".
var ErrNoSource = errors.New("the stream is unavailable")

// Boundary is the multipart boundary token sent in the content type and
// before each frame part.
const Boundary = "--frame"

// ContentType is the response content type for the MJPEG stream.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

const defaultMaxFrameRate = 30

// Provider holds the frame source and runs the per-connection send
// loop. The connected-stream count is diagnostics only, never used for
// load shedding.
type Provider struct {
	mu      sync.RWMutex
	source  FrameSource
	streams atomic.Int32
}

// NewProvider creates a provider with no source configured.
func NewProvider() *Provider {
	return &Provider{}
}

// SetSource wires (or replaces) the frame source.
func (p *Provider) SetSource(s FrameSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = s
}

// HasSource reports whether a frame source is configured.
func (p *Provider) HasSource() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source != nil
}

// ActiveStreams returns the number of connections currently streaming.
func (p *Provider) ActiveStreams() int {
	return int(p.streams.Load())
}

// VideoModes returns the source's advertised modes, or false when no
// source is configured.
func (p *Provider) VideoModes() ([]models.VideoMode, bool) {
	p.mu.RLock()
	src := p.source
	p.mu.RUnlock()
	if src == nil {
		return nil, false
	}
	return src.VideoModes(), true
}

// Stream runs the MJPEG send loop on w until ctx is cancelled (client
// disconnect or server shutdown) or a write fails (broken pipe). Each
// new frame number becomes exactly one multipart chunk; a frame number
// already sent on this connection is never repeated. Between polls the
// loop sleeps for 1/MaxFrameRate.
func (p *Provider) Stream(ctx context.Context, w io.Writer) error {
	p.mu.RLock()
	src := p.source
	p.mu.RUnlock()
	if src == nil {
		return ErrNoSource
	}

	p.streams.Add(1)
	defer p.streams.Add(-1)

	flusher, _ := w.(http.Flusher)
	lastSent := int64(-1)

	for {
		if err := ctx.Err(); err != nil {
			return nil // clean close on cancellation
		}

		frameNumber, payload := src.CurrentFrame()
		if frameNumber > lastSent && len(payload) > 0 {
			if err := writeChunk(w, payload); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
			lastSent = frameNumber
			continue
		}

		rate := src.MaxFrameRate()
		if rate <= 0 {
			rate = defaultMaxFrameRate
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second / time.Duration(rate)):
		}
	}
}

func writeChunk(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", Boundary, len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
