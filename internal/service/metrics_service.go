package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	consultCreated  *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
}

// NewMetricsService registers the core Prometheus collectors.
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

	consultCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consultations_created_total",
		Help: "Consultations created, by origin",
	}, []string{"origin"})

	transitionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consultation_transitions_total",
		Help: "Consultation status transitions, by target status and outcome",
	}, []string{"status", "outcome"})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestDuration,
		requestTotal,
		consultCreated,
		transitionTotal,
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		consultCreated:  consultCreated,
		transitionTotal: transitionTotal,
	}
}

// Handler serves the Prometheus exposition endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records a completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordConsultationCreated counts a created consultation by origin
// ("public" or "admin").
func (s *MetricsService) RecordConsultationCreated(origin string) {
	s.consultCreated.WithLabelValues(origin).Inc()
}

// RecordTransition counts a transition attempt by target status and outcome
// ("applied" or "rejected").
func (s *MetricsService) RecordTransition(status, outcome string) {
	s.transitionTotal.WithLabelValues(status, outcome).Inc()
}
