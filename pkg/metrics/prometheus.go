// Package metrics provides Prometheus metrics for the skillview front-end.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the API client and controllers.
const (
	OutcomeSuccess      = "success"
	OutcomeUnauthorized = "unauthorized"
	OutcomeExpired      = "expired"
	OutcomeFailed       = "failed"
	OutcomeTransport    = "transport"
)

// Quiz session events.
const (
	QuizStarted    = "started"
	QuizSuperseded = "superseded"
	QuizFailed     = "failed"
	QuizCompleted  = "completed"
)

// Manager owns every collector used by skillview.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	registry       prometheus.Registerer

	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	quizSessions       *prometheus.CounterVec
	uploads            *prometheus.CounterVec
	uploadFiles        prometheus.Histogram
	validationFailures *prometheus.CounterVec
	viewRenders        *prometheus.CounterVec

	webRequests        *prometheus.CounterVec
	webRequestDuration *prometheus.HistogramVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry served on /metrics

var defaultManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton manager

// Default returns the process-wide manager bound to the custom registry.
func Default() *Manager {
	return defaultManager
}

// GetRegistry returns the custom Prometheus registry used by Default.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "skillview",
		subsystem:      "client",
		latencyBuckets: []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_requests_total",
		Help:      "Remote API calls by endpoint template, method and outcome",
	}, []string{"endpoint", "method", "outcome"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_request_duration_milliseconds",
		Help:      "Remote API round-trip time in milliseconds (quiz generation is slow)",
		Buckets:   m.latencyBuckets,
	}, []string{"endpoint", "method"})

	m.quizSessions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_sessions_total",
		Help:      "Quiz session lifecycle events",
	}, []string{"event"})

	m.uploads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "project_uploads_total",
		Help:      "Project uploads by outcome",
	}, []string{"outcome"})

	m.uploadFiles = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "project_upload_files",
		Help:      "Number of files per accepted upload",
		Buckets:   []float64{1, 2, 5, 10, 15, 20},
	})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Client-side validation failures caught before any network call",
	}, []string{"operation"})

	m.viewRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_renders_total",
		Help:      "View fragments mounted by slot",
	}, []string{"slot"})

	m.webRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "web",
		Name:      "requests_total",
		Help:      "Local front-end HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.webRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "web",
		Name:      "request_duration_milliseconds",
		Help:      "Local front-end HTTP request duration in milliseconds",
		Buckets:   m.latencyBuckets,
	}, []string{"route", "method", "status_code"})
}

// RecordAPICall records one remote API round trip.
func (m *Manager) RecordAPICall(endpoint, method, outcome string, durationMs float64) {
	m.apiRequests.WithLabelValues(endpoint, method, outcome).Inc()
	m.apiRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordQuizSession counts a quiz session lifecycle event.
func (m *Manager) RecordQuizSession(event string) {
	m.quizSessions.WithLabelValues(event).Inc()
}

// RecordUpload counts an upload attempt and, on success, its file count.
func (m *Manager) RecordUpload(outcome string, files int) {
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.uploadFiles.Observe(float64(files))
	}
}

// RecordValidationFailure counts a rejected operation.
func (m *Manager) RecordValidationFailure(operation string) {
	m.validationFailures.WithLabelValues(operation).Inc()
}

// RecordRender counts a mounted fragment.
func (m *Manager) RecordRender(slot string) {
	m.viewRenders.WithLabelValues(slot).Inc()
}

// RecordWebRequest records a local front-end request.
func (m *Manager) RecordWebRequest(route, method, statusCode string, durationMs float64) {
	m.webRequests.WithLabelValues(route, method, statusCode).Inc()
	m.webRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// Handler exposes the manager's registry over HTTP.
func (m *Manager) Handler() (http.Handler, error) {
	gatherer, ok := m.registry.(prometheus.Gatherer)
	if !ok {
		return nil, fmt.Errorf("%w: registerer %T cannot gather", ErrRegistryUnavailable, m.registry)
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), nil
}
