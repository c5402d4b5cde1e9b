package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/models/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler_AllUp(t *testing.T) {
	handler := HealthCheckHandler(map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
	}, time.Now().Add(-time.Minute))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp entities.HealthCheckResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Services["postgres"].Status)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthCheckHandler_ServiceDown(t *testing.T) {
	handler := HealthCheckHandler(map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	}, time.Now())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp entities.HealthCheckResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, "connection refused", resp.Services["redis"].Details)
	assert.Equal(t, "ok", resp.Services["postgres"].Status)
}
