package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/headsetnav/console/internal/registry"
	"github.com/headsetnav/console/internal/storage"
	"github.com/headsetnav/console/internal/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configFixture struct {
	e       *echo.Echo
	reg     *registry.Registry
	store   *storage.Store
	handler ConfigHandler
}

func newConfigFixture(t *testing.T) *configFixture {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	reg := registry.NewDefault()
	return &configFixture{
		e:       echo.New(),
		reg:     reg,
		store:   store,
		handler: NewConfigHandler(reg, store, telemetry.NewLogCollector()),
	}
}

func (f *configFixture) postConfig(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if err := f.handler.HandlePostConfig(c); err != nil {
		f.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestPostConfigClampsOutOfRangeValue(t *testing.T) {
	f := newConfigFixture(t)

	rec := f.postConfig(t, `{"path":"Network/teamNumber","value":99999}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool        `json:"success"`
		OldValue interface{} `json:"oldValue"`
		NewValue interface{} `json:"newValue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(25599), resp.NewValue, "response reports the clamped bound, not the sent value")
	assert.Equal(t, float64(0), resp.OldValue)

	// Persistence happened before the 200 went out
	snap := f.store.Load()
	assert.Equal(t, float64(25599), snap.Values["Network/teamNumber"])
}

func TestPostConfigUnknownPath(t *testing.T) {
	f := newConfigFixture(t)

	f.e.HTTPErrorHandler = NewErrorHandler(telemetry.NewLogCollector())
	rec := f.postConfig(t, `{"path":"NoSuch/Field","value":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestPostConfigInvalidValue(t *testing.T) {
	f := newConfigFixture(t)
	f.e.HTTPErrorHandler = NewErrorHandler(telemetry.NewLogCollector())

	rec := f.postConfig(t, `{"path":"Network/teamNumber","value":"banana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No partial mutation
	v, err := f.reg.GetValue("Network/teamNumber")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestGetConfig(t *testing.T) {
	f := newConfigFixture(t)
	f.reg.SetValue("Network/teamNumber", 9014)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, f.handler.HandleGetConfig(f.e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success   bool                   `json:"success"`
		Values    map[string]interface{} `json:"values"`
		Timestamp int64                  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(9014), resp.Values["Network/teamNumber"])
	assert.NotZero(t, resp.Timestamp)
}

func TestGetSchema(t *testing.T) {
	f := newConfigFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/schema", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, f.handler.HandleGetSchema(f.e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Network/teamNumber"`)
	assert.Contains(t, rec.Body.String(), `"categories"`)
}

func TestResetConfig(t *testing.T) {
	f := newConfigFixture(t)
	f.reg.SetValue("Network/teamNumber", 1234)

	req := httptest.NewRequest(http.MethodPost, "/api/reset-config", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, f.handler.HandleResetConfig(f.e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	v, _ := f.reg.GetValue("Network/teamNumber")
	assert.Equal(t, int64(0), v)

	snap := f.store.Load()
	assert.Equal(t, float64(0), snap.Values["Network/teamNumber"])
}

func TestUploadDatabaseEmptyBody(t *testing.T) {
	f := newConfigFixture(t)
	f.e.HTTPErrorHandler = NewErrorHandler(telemetry.NewLogCollector())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-database", strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if err := f.handler.HandleUploadDatabase(c); err != nil {
		f.e.HTTPErrorHandler(err, c)
	}

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file data received")
}

func TestUploadDatabaseAppliesValues(t *testing.T) {
	f := newConfigFixture(t)

	payload := `{"values":{"Network/teamNumber":4321},"version":1,"lastModified":1700000000}`
	req := httptest.NewRequest(http.MethodPost, "/api/upload-database", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	require.NoError(t, f.handler.HandleUploadDatabase(f.e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	v, _ := f.reg.GetValue("Network/teamNumber")
	assert.Equal(t, int64(4321), v)
}

func TestDownloadDatabase(t *testing.T) {
	f := newConfigFixture(t)
	f.reg.SetValue("Network/teamNumber", 77)

	req := httptest.NewRequest(http.MethodGet, "/api/download-database", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, f.handler.HandleDownloadDatabase(f.e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "Network/teamNumber")
}
