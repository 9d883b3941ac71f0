// handlers_stream.go - MJPEG video endpoints
package api

import (
	"net/http"

	"github.com/headsetnav/console/internal/stream"
	"github.com/labstack/echo/v4"
)

// StreamHandlerImpl implements StreamHandler. The two degenerate
// responses are distinguished deliberately: no provider wired at all is
// 204 (feature disabled), a provider without a frame source is 503
// (feature present but unavailable).
type StreamHandlerImpl struct {
	provider *stream.Provider // nil when streaming is disabled
}

// NewStreamHandler creates the stream handler. provider may be nil.
func NewStreamHandler(provider *stream.Provider) StreamHandler {
	return &StreamHandlerImpl{provider: provider}
}

// HandleVideo serves the MJPEG stream until the client disconnects, a
// write fails or the server shuts down.
func (h *StreamHandlerImpl) HandleVideo(c echo.Context) error {
	if h.provider == nil {
		return c.NoContent(http.StatusNoContent)
	}
	if !h.provider.HasSource() {
		return c.String(http.StatusServiceUnavailable, "The stream is unavailable")
	}

	c.Response().Header().Set(echo.HeaderContentType, stream.ContentType)
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().WriteHeader(http.StatusOK)

	// A write error here means the client is gone; there is nobody
	// left to report it to.
	_ = h.provider.Stream(c.Request().Context(), c.Response())
	return nil
}

// HandleVideoModes lists the frame source's advertised capture modes.
func (h *StreamHandlerImpl) HandleVideoModes(c echo.Context) error {
	if h.provider == nil {
		return c.NoContent(http.StatusNoContent)
	}
	modes, ok := h.provider.VideoModes()
	if !ok {
		return NewServiceUnavailableError("The stream is unavailable")
	}
	return c.JSON(http.StatusOK, modes)
}
