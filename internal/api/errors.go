// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/headsetnav/console/internal/models"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
)

// APIError is the structured error body every failure path produces:
// {"success":false,"message":...}.
type APIError struct {
	Status  int    `json:"-"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// NewInternalError creates a 500 error.
func NewInternalError(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}

// NewServiceUnavailableError creates a 503 error.
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Message: message}
}

// NewErrorHandler builds the echo.HTTPErrorHandler for the gateway.
// Any uncaught handler error lands here: it is recorded with full
// detail in the log collector and converted to a structured JSON body.
// The listener itself never dies from a single bad request.
func NewErrorHandler(logs *telemetry.LogCollector) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		switch e := err.(type) {
		case *APIError:
			apiErr = e
		case *echo.HTTPError:
			message := fmt.Sprintf("%v", e.Message)
			if e.Code == http.StatusNotFound {
				message = "Not found"
			}
			apiErr = &APIError{Status: e.Code, Message: message}
		default:
			apiErr = NewInternalError("An unexpected error occurred")
			if logs != nil {
				logs.LogWithStack(models.LogLevelError,
					fmt.Sprintf("handler fault on %s %s: %v", c.Request().Method, c.Request().URL.Path, err),
					string(debug.Stack()), "ConfigServer")
			}
		}

		if apiErr.Status >= http.StatusInternalServerError && logs != nil {
			logs.Error(fmt.Sprintf("%s %s -> %d: %s",
				c.Request().Method, c.Request().URL.Path, apiErr.Status, apiErr.Message), "ConfigServer")
		}

		c.JSON(apiErr.Status, apiErr)
	}
}
