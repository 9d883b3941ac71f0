// handlers_config.go - Configuration registry and snapshot-file handlers
package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/headsetnav/console/internal/models"
	"github.com/headsetnav/console/internal/registry"
	"github.com/headsetnav/console/internal/storage"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
)

// ConfigHandlerImpl implements ConfigHandler on top of the registry and
// the snapshot store. Persistence is write-through: every successful
// mutation saves before the 200 goes out, so a client that sees success
// can rely on the value having been durably written.
type ConfigHandlerImpl struct {
	registry *registry.Registry
	store    *storage.Store
	logs     *telemetry.LogCollector
}

// NewConfigHandler creates the config handler.
func NewConfigHandler(reg *registry.Registry, store *storage.Store, logs *telemetry.LogCollector) ConfigHandler {
	return &ConfigHandlerImpl{registry: reg, store: store, logs: logs}
}

// HandleGetSchema returns the descriptor schema with current values.
func (h *ConfigHandlerImpl) HandleGetSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.GenerateSchema())
}

// HandleGetConfig returns every current value keyed by path.
func (h *ConfigHandlerImpl) HandleGetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"values":    h.registry.GetAllValues(),
		"timestamp": time.Now().UnixMilli(),
	})
}

// HandlePostConfig sets one value. Conversion/validation failure is a
// 400 with no partial mutation; the response reports the value actually
// stored, which may be the clamped bound rather than what was sent.
func (h *ConfigHandlerImpl) HandlePostConfig(c echo.Context) error {
	var req struct {
		Path  string      `json:"path"`
		Value interface{} `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid request body")
	}
	if req.Path == "" {
		return NewBadRequestError("path is required")
	}

	oldValue, err := h.registry.GetValue(req.Path)
	if err != nil {
		return NewBadRequestError(fmt.Sprintf("Unknown config path: %s", req.Path))
	}

	if !h.registry.SetValue(req.Path, req.Value) {
		return NewBadRequestError(fmt.Sprintf("Invalid value for %s", req.Path))
	}
	newValue, _ := h.registry.GetValue(req.Path)

	if !h.persist() {
		return NewInternalError("Value set but could not be persisted")
	}

	restart := false
	if d, ok := h.registry.Descriptor(req.Path); ok {
		restart = d.RequiresRestart
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         "Configuration updated",
		"oldValue":        oldValue,
		"newValue":        newValue,
		"requiresRestart": restart,
	})
}

// HandleResetConfig restores every field to its default and persists.
func (h *ConfigHandlerImpl) HandleResetConfig(c echo.Context) error {
	h.registry.ResetToDefaults()
	if !h.persist() {
		return NewInternalError("Defaults restored but could not be persisted")
	}
	h.logs.Info("configuration reset to defaults", "ConfigServer")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Configuration reset to defaults",
	})
}

// HandleDownloadDatabase serves the persisted snapshot file. If nothing
// has been saved yet the current values are flushed first so the
// download always reflects reality.
func (h *ConfigHandlerImpl) HandleDownloadDatabase(c echo.Context) error {
	data, err := h.store.ReadRaw()
	if err != nil {
		if !h.persist() {
			return NewInternalError("No snapshot available")
		}
		if data, err = h.store.ReadRaw(); err != nil {
			return NewInternalError("No snapshot available")
		}
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="config-snapshot.json"`)
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

// HandleUploadDatabase replaces the snapshot file with the request body
// and applies the uploaded values to the live registry.
func (h *ConfigHandlerImpl) HandleUploadDatabase(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil || len(data) == 0 {
		return NewInternalError("No file data received")
	}

	if err := h.store.WriteRaw(data); err != nil {
		return NewInternalError(fmt.Sprintf("Snapshot rejected: %v", err))
	}

	snap := h.store.Load()
	applied := h.registry.ApplyValues(snap.Values)
	h.logs.Infof("ConfigServer", "snapshot uploaded, %d values applied", applied)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Snapshot restored, %d values applied", applied),
	})
}

func (h *ConfigHandlerImpl) persist() bool {
	snap := models.EmptyConfigSnapshot()
	snap.Values = h.registry.GetAllValues()
	return h.store.Save(snap)
}
