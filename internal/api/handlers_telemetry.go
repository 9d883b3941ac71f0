// handlers_telemetry.go - Status and log handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultLogCount = 100

// TelemetryHandlerImpl implements TelemetryHandler.
type TelemetryHandlerImpl struct {
	status *telemetry.StatusProvider
	logs   *telemetry.LogCollector
}

// NewTelemetryHandler creates the telemetry handler.
func NewTelemetryHandler(status *telemetry.StatusProvider, logs *telemetry.LogCollector) TelemetryHandler {
	return &TelemetryHandlerImpl{status: status, logs: logs}
}

// HandleGetStatus returns the current status snapshot as JSON.
func (h *TelemetryHandlerImpl) HandleGetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status.GetStatus())
}

// HandleGetStatusMsgpack returns the same snapshot msgpack-encoded, for
// dashboards polling at high rate over constrained links.
func (h *TelemetryHandlerImpl) HandleGetStatusMsgpack(c echo.Context) error {
	data, err := msgpack.Marshal(h.status.GetStatus())
	if err != nil {
		return NewInternalError("Failed to encode status")
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// HandleGetLogs returns up to ?count=N most recent entries, oldest
// first.
func (h *TelemetryHandlerImpl) HandleGetLogs(c echo.Context) error {
	count := defaultLogCount
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewBadRequestError("count must be a non-negative integer")
		}
		count = n
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"logs":    h.logs.GetRecentLogs(count),
	})
}

// HandleDeleteLogs empties the log buffer.
func (h *TelemetryHandlerImpl) HandleDeleteLogs(c echo.Context) error {
	h.logs.ClearLogs()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logs cleared",
	})
}
