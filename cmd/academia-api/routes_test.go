package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/handler"
	"github.com/noah-isme/academia-api/internal/service"
	"github.com/noah-isme/academia-api/pkg/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	metrics := service.NewMetricsService()
	app := &application{metrics: metrics, probes: handler.NewMetricsHandler(metrics, nil)}
	return newRouter(cfg, app, zap.NewNop(), nil)
}

func TestRouterRegistersCoreRoutes(t *testing.T) {
	routes := map[string]bool{}
	for _, info := range testRouter().Routes() {
		routes[info.Method+" "+info.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/login",
		"POST /api/v1/students/register",
		"GET /api/v1/vouchers/download",
		"GET /api/v1/course-offerings/:id/calendar.ics",
		"POST /api/v1/enrollments",
		"PATCH /api/v1/enrollments/:id/status",
		"GET /api/v1/enrollments/export",
		"POST /api/v1/installments/:id/voucher",
		"POST /api/v1/installments/:id/approve",
		"POST /api/v1/attendance",
		"GET /health",
		"GET /metrics",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
	assert.False(t, routes["GET /docs/*any"], "docs must be hidden in production")
}

func TestRouterProtectsSecuredRoutes(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/enrollments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAnswersNotFoundForMalformedIDs(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/api/v1/cycles/abc", "/api/v1/course-offerings/1/calendar.ics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	}
}
