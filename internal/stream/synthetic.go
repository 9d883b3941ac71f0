package stream

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"sync/atomic"

	"github.com/headsetnav/console/internal/models"
)

// Frame is one encoded frame. Instances are replaced, never mutated.
type Frame struct {
	Number int64
	Data   []byte
}

// SyntheticSource renders a moving test pattern. It stands in for the
// camera pipeline when none is wired (the demo binary) and gives tests
// a deterministic source. The main loop calls Advance once per tick;
// viewers read the newest frame through an atomic pointer swap, so no
// reader-side locking is needed.
type SyntheticSource struct {
	frame        atomic.Pointer[Frame]
	counter      atomic.Int64
	width        int
	height       int
	maxFrameRate int
	quality      int
}

// NewSyntheticSource creates a test-pattern source.
func NewSyntheticSource(width, height, maxFrameRate, quality int) *SyntheticSource {
	if width <= 0 {
		width = 320
	}
	if height <= 0 {
		height = 240
	}
	if maxFrameRate <= 0 {
		maxFrameRate = defaultMaxFrameRate
	}
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	return &SyntheticSource{
		width:        width,
		height:       height,
		maxFrameRate: maxFrameRate,
		quality:      quality,
	}
}

// Advance renders and publishes the next frame.
func (s *SyntheticSource) Advance() {
	n := s.counter.Add(1)
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))

	// Scrolling gradient with a sweep bar so motion is visible
	shift := int(n) % s.width
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x + shift) * 255 / s.width),
				G: uint8(y * 255 / s.height),
				B: 64,
				A: 255,
			})
		}
	}
	for y := 0; y < s.height; y++ {
		img.SetRGBA(shift, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return // keep the previous frame on encode failure
	}

	s.frame.Store(&Frame{Number: n, Data: buf.Bytes()})
}

// CurrentFrame returns the newest frame, or (0, nil) before the first
// Advance.
func (s *SyntheticSource) CurrentFrame() (int64, []byte) {
	f := s.frame.Load()
	if f == nil {
		return 0, nil
	}
	return f.Number, f.Data
}

// MaxFrameRate returns the pacing ceiling.
func (s *SyntheticSource) MaxFrameRate() int {
	return s.maxFrameRate
}

// VideoModes advertises the single synthetic mode.
func (s *SyntheticSource) VideoModes() []models.VideoMode {
	return []models.VideoMode{
		{Width: s.width, Height: s.height, Framerate: s.maxFrameRate},
	}
}
