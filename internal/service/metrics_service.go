package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the schedule store.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	persistDuration prometheus.Histogram
	persistTotal    *prometheus.CounterVec
	templatesGauge  prometheus.Gauge
	coursesGauge    prometheus.Gauge

	persistFailures uint64
	persistCount    uint64
}

// MetricsSnapshot summarises persistence health for diagnostics.
type MetricsSnapshot struct {
	PersistCount    uint64 `json:"persistCount"`
	PersistFailures uint64 `json:"persistFailures"`
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

	persistDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_persist_duration_seconds",
		Help:    "Duration of timetable state writes",
		Buckets: prometheus.DefBuckets,
	})

	persistTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_persist_total",
		Help: "Timetable state writes by outcome",
	}, []string{"outcome"})

	templatesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_templates",
		Help: "Number of schedule templates held by the store",
	})

	coursesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_courses",
		Help: "Number of courses across all templates",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, persistDuration, persistTotal, templatesGauge, coursesGauge, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		persistDuration: persistDuration,
		persistTotal:    persistTotal,
		templatesGauge:  templatesGauge,
		coursesGauge:    coursesGauge,
	}
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

// ObservePersist records one state write and its outcome.
func (m *MetricsService) ObservePersist(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.persistCount, 1)
	if err != nil {
		m.persistTotal.WithLabelValues("error").Inc()
		atomic.AddUint64(&m.persistFailures, 1)
		return
	}
	m.persistTotal.WithLabelValues("ok").Inc()
}

// SetStateSize publishes the current template and course counts.
func (m *MetricsService) SetStateSize(templates, courses int) {
	if m == nil {
		return
	}
	m.templatesGauge.Set(float64(templates))
	m.coursesGauge.Set(float64(courses))
}

// Snapshot returns persistence counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		PersistCount:    atomic.LoadUint64(&m.persistCount),
		PersistFailures: atomic.LoadUint64(&m.persistFailures),
	}
}
