// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import "github.com/labstack/echo/v4"

// ConfigHandler handles schema, value and snapshot-file operations.
type ConfigHandler interface {
	HandleGetSchema(c echo.Context) error
	HandleGetConfig(c echo.Context) error
	HandlePostConfig(c echo.Context) error
	HandleResetConfig(c echo.Context) error
	HandleDownloadDatabase(c echo.Context) error
	HandleUploadDatabase(c echo.Context) error
}

// TelemetryHandler handles status and log queries.
type TelemetryHandler interface {
	HandleGetStatus(c echo.Context) error
	HandleGetStatusMsgpack(c echo.Context) error
	HandleGetLogs(c echo.Context) error
	HandleDeleteLogs(c echo.Context) error
}

// SystemHandler handles server info and the main-loop action relay.
type SystemHandler interface {
	HandleGetInfo(c echo.Context) error
	HandleRestart(c echo.Context) error
	HandleResetPose(c echo.Context) error
}

// StreamHandler handles the MJPEG video endpoints.
type StreamHandler interface {
	HandleVideo(c echo.Context) error
	HandleVideoModes(c echo.Context) error
}
