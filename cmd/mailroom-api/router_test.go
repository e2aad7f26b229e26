package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/pkg/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	db := sqlx.NewDb(mockDB, "postgres")

	cfg := &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api",
		Admin: config.AdminConfig{
			GateEnabled:   true,
			Password:      "letmein",
			SessionSecret: "router-secret",
			SessionTTL:    time.Hour,
		},
		Packages: config.PackagesConfig{SummaryCacheTTL: time.Minute, ExportMaxRows: 10},
		Receipts: config.ReceiptsConfig{
			StorageDir:       t.TempDir(),
			SignedURLSecret:  "receipts",
			SignedURLTTL:     time.Minute,
			MaxFileSizeBytes: 1024,
		},
	}
	a, err := buildApp(cfg, db, nil, zap.NewNop())
	require.NoError(t, err)
	return newRouter(cfg, a, zap.NewNop())
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterGatesAdminWrites(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/panels", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/professors/p1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterLoginUnlocksPanels(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"letmein"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, decodeJSON(w.Body.String(), &login))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/panels", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"students"`)
}

func TestRouterRejectsBadListQuery(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/packages?status=teleported", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func decodeJSON(raw string, dest interface{}) error {
	return json.Unmarshal([]byte(raw), dest)
}
