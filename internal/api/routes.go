// routes.go - Route registration and middleware setup
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/headsetnav/console/internal/mainloop"
	"github.com/headsetnav/console/internal/registry"
	"github.com/headsetnav/console/internal/storage"
	"github.com/headsetnav/console/internal/stream"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Dependencies holds everything the gateway composes. The composition
// root (cmd/server) builds and owns all of these; there is no hidden
// global state.
type Dependencies struct {
	Registry *registry.Registry
	Store    *storage.Store
	Status   *telemetry.StatusProvider
	Logs     *telemetry.LogCollector
	Stream   *stream.Provider // nil disables the video feature entirely
	Actions  *mainloop.Queue
	Clients  *ClientTable

	// The two privileged operations that must run on the main loop.
	RestartAction   mainloop.Action
	ResetPoseAction mainloop.Action

	Info          ServerInfo
	DeveloperMode bool
	BodyLimit     string
	RequestLogs   bool
}

// Handlers holds all handler instances.
type Handlers struct {
	Config    ConfigHandler
	Telemetry TelemetryHandler
	System    SystemHandler
	Stream    StreamHandler
	StatusWS  *StatusWebSocketHandler
}

// NewHandlers creates all handler instances from the dependency set.
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Config:    NewConfigHandler(deps.Registry, deps.Store, deps.Logs),
		Telemetry: NewTelemetryHandler(deps.Status, deps.Logs),
		System: NewSystemHandler(deps.Info, deps.Actions, deps.RestartAction,
			deps.ResetPoseAction, deps.Clients, deps.Logs, deps.Store),
		Stream:   NewStreamHandler(deps.Stream),
		StatusWS: NewStatusWebSocketHandler(deps.Status),
	}
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/schema", h.Config.HandleGetSchema)
	apiGroup.GET("/config", h.Config.HandleGetConfig)
	apiGroup.POST("/config", h.Config.HandlePostConfig)
	apiGroup.POST("/reset-config", h.Config.HandleResetConfig)
	apiGroup.GET("/download-database", h.Config.HandleDownloadDatabase)
	apiGroup.POST("/upload-database", h.Config.HandleUploadDatabase)

	apiGroup.GET("/info", h.System.HandleGetInfo)
	apiGroup.POST("/restart", h.System.HandleRestart)
	apiGroup.POST("/reset-pose", h.System.HandleResetPose)

	apiGroup.GET("/status", h.Telemetry.HandleGetStatus)
	apiGroup.GET("/status/msgpack", h.Telemetry.HandleGetStatusMsgpack)
	apiGroup.GET("/logs", h.Telemetry.HandleGetLogs)
	apiGroup.DELETE("/logs", h.Telemetry.HandleDeleteLogs)

	apiGroup.GET("/video-modes", h.Stream.HandleVideoModes)
	apiGroup.GET("/ws/status", h.StatusWS.HandleStatusSocket)

	// The video stream lives outside /api so it can be used directly
	// as an <img> source.
	e.GET("/video", h.Stream.HandleVideo)
}

// SetupMiddleware configures the middleware stack. Order matters: the
// recoverer sits outermost so a panicking handler becomes a 500 instead
// of a dead listener.
func SetupMiddleware(e *echo.Echo, deps *Dependencies) {
	e.HideBanner = true
	e.HTTPErrorHandler = NewErrorHandler(deps.Logs)

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 * 1024,
	}))

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !deps.RequestLogs {
				return true
			}
			// The UI polls these constantly; logging them drowns
			// everything else.
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/status") ||
				strings.HasSuffix(path, "/logs") ||
				path == "/video"
		},
	}))

	if deps.BodyLimit != "" {
		e.Use(middleware.BodyLimit(deps.BodyLimit))
	}

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
		Skipper: func(c echo.Context) bool {
			// Streaming routes hold their connections open indefinitely
			path := c.Request().URL.Path
			return path == "/video" || strings.Contains(path, "/ws/")
		},
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			// Never buffer the MJPEG stream or the websocket
			path := c.Request().URL.Path
			return path == "/video" || strings.Contains(path, "/ws/")
		},
	}))

	// Developer mode opens CORS so a dashboard served from a dev
	// machine can hit the headset directly. This also answers OPTIONS
	// preflights on every API route.
	if deps.DeveloperMode {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	e.Use(TrackClients(deps.Clients, deps.Status))
}
