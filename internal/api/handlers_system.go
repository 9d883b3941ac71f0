// handlers_system.go - Server info and main-loop action relay handlers
package api

import (
	"net/http"
	"time"

	"github.com/headsetnav/console/internal/mainloop"
	"github.com/headsetnav/console/internal/storage"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
)

// ServerInfo is the static identity reported by /api/info.
type ServerInfo struct {
	AppName     string
	Version     string
	Platform    string
	DeviceModel string
	InstanceID  string
	ServerPort  int
}

// SystemHandlerImpl implements SystemHandler. Restart and pose reset
// are fire-and-forget: the handler posts the action to the main-loop
// queue and answers "initiated" immediately. The loop only drains once
// per tick and the HTTP response must not block on that cadence.
type SystemHandlerImpl struct {
	info      ServerInfo
	actions   *mainloop.Queue
	restart   mainloop.Action
	resetPose mainloop.Action
	clients   *ClientTable
	logs      *telemetry.LogCollector
	store     *storage.Store
}

// NewSystemHandler creates the system handler. The restart and
// resetPose callbacks are the two privileged operations that touch
// main-loop-owned state.
func NewSystemHandler(info ServerInfo, actions *mainloop.Queue, restart, resetPose mainloop.Action,
	clients *ClientTable, logs *telemetry.LogCollector, store *storage.Store) SystemHandler {
	return &SystemHandlerImpl{
		info:      info,
		actions:   actions,
		restart:   restart,
		resetPose: resetPose,
		clients:   clients,
		logs:      logs,
		store:     store,
	}
}

// HandleGetInfo returns server identity and runtime facts.
func (h *SystemHandlerImpl) HandleGetInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"appName":          h.info.AppName,
		"version":          h.info.Version,
		"platform":         h.info.Platform,
		"deviceModel":      h.info.DeviceModel,
		"instanceId":       h.info.InstanceID,
		"connectedClients": h.clients.Count(),
		"configPath":       h.store.Path(),
		"serverPort":       h.info.ServerPort,
		"timestamp":        time.Now().UnixMilli(),
	})
}

// HandleRestart queues an application restart on the main loop.
func (h *SystemHandlerImpl) HandleRestart(c echo.Context) error {
	if !h.actions.Post(h.restart) {
		h.logs.Warning("restart request dropped, action queue full", "ConfigServer")
	} else {
		h.logs.Info("restart requested", "ConfigServer")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Restart initiated",
	})
}

// HandleResetPose queues a tracking pose recenter on the main loop.
func (h *SystemHandlerImpl) HandleResetPose(c echo.Context) error {
	if !h.actions.Post(h.resetPose) {
		h.logs.Warning("pose reset request dropped, action queue full", "ConfigServer")
	} else {
		h.logs.Info("pose reset requested", "ConfigServer")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Pose reset initiated",
	})
}
