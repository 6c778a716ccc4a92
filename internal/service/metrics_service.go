package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP, cache and domain events.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	enrollments     *prometheus.CounterVec
	reviews         *prometheus.CounterVec
	vouchers        prometheus.Counter
	absenceAlerts   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Catalog cache lookups by result",
	}, []string{"result"})

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollments_created_total",
		Help: "Enrollments created by offering type",
	}, []string{"type"})

	reviews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "installment_reviews_total",
		Help: "Installment voucher reviews by outcome",
	}, []string{"outcome"})

	vouchers := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vouchers_submitted_total",
		Help: "Payment vouchers uploaded",
	})

	absenceAlerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "absence_alerts_total",
		Help: "Absence alerts dispatched to guardians",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		enrollments, reviews, vouchers, absenceAlerts, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		enrollments:     enrollments,
		reviews:         reviews,
		vouchers:        vouchers,
		absenceAlerts:   absenceAlerts,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup and its outcome.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// EnrollmentCreated counts one created enrollment.
func (m *MetricsService) EnrollmentCreated(kind string) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(kind).Inc()
}

// InstallmentReviewed counts an approve or reject decision.
func (m *MetricsService) InstallmentReviewed(outcome string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

// VoucherSubmitted counts an uploaded voucher.
func (m *MetricsService) VoucherSubmitted() {
	if m == nil {
		return
	}
	m.vouchers.Inc()
}

// AbsenceAlertRaised counts a dispatched absence alert.
func (m *MetricsService) AbsenceAlertRaised() {
	if m == nil {
		return
	}
	m.absenceAlerts.Inc()
}
