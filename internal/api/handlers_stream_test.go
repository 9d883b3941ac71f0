package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/headsetnav/console/internal/models"
	"github.com/headsetnav/console/internal/stream"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoNoProvider(t *testing.T) {
	e := echo.New()
	h := NewStreamHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/video", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleVideo(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestVideoNoSource(t *testing.T) {
	e := echo.New()
	h := NewStreamHandler(stream.NewProvider())

	req := httptest.NewRequest(http.MethodGet, "/video", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleVideo(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "The stream is unavailable", rec.Body.String())
}

func TestVideoModes(t *testing.T) {
	e := echo.New()
	provider := stream.NewProvider()
	provider.SetSource(stream.NewSyntheticSource(320, 240, 20, 75))
	h := NewStreamHandler(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/video-modes", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleVideoModes(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var modes []models.VideoMode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &modes))
	require.Len(t, modes, 1)
	assert.Equal(t, 320, modes[0].Width)
	assert.Equal(t, 240, modes[0].Height)
	assert.Equal(t, 20, modes[0].Framerate)
}

func TestVideoModesNoSource(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(telemetry.NewLogCollector())
	h := NewStreamHandler(stream.NewProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/video-modes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.HandleVideoModes(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "The stream is unavailable")
}

func TestVideoStreamsMultipart(t *testing.T) {
	e := echo.New()
	provider := stream.NewProvider()
	source := stream.NewSyntheticSource(64, 48, 30, 60)
	source.Advance()
	provider.SetSource(source)
	h := NewStreamHandler(provider)

	// The handler only returns when the request context ends.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/video", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleVideo(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stream.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), stream.Boundary)
	assert.Contains(t, rec.Body.String(), "Content-Type: image/jpeg")
}
