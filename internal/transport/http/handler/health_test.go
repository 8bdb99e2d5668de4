package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	App          string                      `json:"app"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func checkHealth(t *testing.T, checks map[string]HealthCheck) (int, healthBody) {
	t.Helper()
	router := gin.New()
	router.GET("/healthz", NewHealthHandler("apna-lawyer", "test", time.Now(), checks).Check)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthAllDependenciesUp(t *testing.T) {
	code, body := checkHealth(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "apna-lawyer", body.App)
	assert.True(t, body.Dependencies["database"].OK)
}

func TestHealthReportsFailingDependency(t *testing.T) {
	code, body := checkHealth(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, body.Dependencies["database"].OK)
	assert.False(t, body.Dependencies["redis"].OK)
	assert.Equal(t, "connection refused", body.Dependencies["redis"].Message)
}
