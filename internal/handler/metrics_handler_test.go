package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/service"
)

func TestMetricsHandlerHealth(t *testing.T) {
	h := NewMetricsHandler(nil, nil)

	c, rec := newTestContext(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsHandlerReady(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	c, rec := newTestContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]Pinger{"database": ok, "cache": ok}).Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]Pinger{"database": ok, "cache": down}).Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["cache"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	metrics := service.NewMetricsService()
	metrics.EnrollmentCreated("course")
	c, rec = newTestContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(metrics, nil).Prometheus(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "enrollments_created_total")
}
