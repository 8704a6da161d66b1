// Package metrics provides Prometheus metrics for the Mergington activities service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results used as the "result" label on roster counters.
const (
	ResultOK         = "ok"
	ResultNotFound   = "not_found"
	ResultDuplicate  = "already_signed_up"
	ResultNotMember  = "not_signed_up"
	ResultFull       = "full"
	ResultError      = "error"
	UnknownActivity  = "unknown"
	defaultNamespace = "mergington"
	defaultSubsystem = "activities"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Roster
	signups         *prometheus.CounterVec
	unregistrations *prometheus.CounterVec
	participants    *prometheus.GaugeVec
	activities      prometheus.Gauge
	storeLatency    *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// Roster events
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	eventsPublished prometheus.Counter
	eventsDropped   prometheus.Counter
	eventsDelivered prometheus.Counter
	notifierErrors  prometheus.Counter
	notifierLatency prometheus.Histogram
	notifierWorkers prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry served on /metrics

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton used by package helpers

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounterVec(m.counterOpts("signups_total", "Signup attempts by activity and result"), []string{"activity", "result"})
	m.unregistrations = auto.NewCounterVec(m.counterOpts("unregistrations_total", "Unregister attempts by activity and result"), []string{"activity", "result"})
	m.participants = auto.NewGaugeVec(m.gaugeOpts("participants", "Current number of participants per activity"), []string{"activity"})
	m.activities = auto.NewGauge(m.gaugeOpts("activities_total", "Number of activities in the directory"))
	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_operation_latency_milliseconds", "Directory store operation latency"), []string{"backend", "operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("roster_queue_size", "Roster events waiting for the notifier"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("roster_queue_capacity", "Capacity of the roster event queue"))
	m.eventsPublished = auto.NewCounter(m.counterOpts("roster_events_published_total", "Roster events accepted by the queue"))
	m.eventsDropped = auto.NewCounter(m.counterOpts("roster_events_dropped_total", "Roster events dropped because the queue was full or closed"))
	m.eventsDelivered = auto.NewCounter(m.counterOpts("roster_events_delivered_total", "Roster events handled by the notifier"))
	m.notifierErrors = auto.NewCounter(m.counterOpts("notifier_errors_total", "Roster events the notifier failed to handle"))
	m.notifierLatency = auto.NewHistogram(m.histogramOpts("notifier_latency_milliseconds", "Time spent handling one roster event"))
	m.notifierWorkers = auto.NewGauge(m.gaugeOpts("notifier_workers", "Running notifier workers"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// RecordSignup counts a signup attempt.
func (m *Manager) RecordSignup(activity, result string) {
	m.signups.WithLabelValues(activity, result).Inc()
}

// RecordUnregister counts an unregister attempt.
func (m *Manager) RecordUnregister(activity, result string) {
	m.unregistrations.WithLabelValues(activity, result).Inc()
}

// SetParticipants sets the participant gauge for one activity.
func (m *Manager) SetParticipants(activity string, count int) {
	m.participants.WithLabelValues(activity).Set(float64(count))
}

// SetActivities sets the number of activities in the directory.
func (m *Manager) SetActivities(count int) {
	m.activities.Set(float64(count))
}

// RecordStoreLatency observes one store operation.
func (m *Manager) RecordStoreLatency(backend, operation string, latencyMs float64) {
	m.storeLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateQueue sets the roster queue depth and capacity.
func (m *Manager) UpdateQueue(size, capacity int) {
	m.queueSize.Set(float64(size))
	m.queueCapacity.Set(float64(capacity))
}

// RecordEventPublished counts an accepted roster event.
func (m *Manager) RecordEventPublished() { m.eventsPublished.Inc() }

// RecordEventDropped counts a roster event the queue refused.
func (m *Manager) RecordEventDropped() { m.eventsDropped.Inc() }

// RecordEventDelivered records a handled roster event and its latency.
func (m *Manager) RecordEventDelivered(latencyMs float64) {
	m.eventsDelivered.Inc()
	m.notifierLatency.Observe(latencyMs)
}

// RecordNotifierError counts a failed roster event.
func (m *Manager) RecordNotifierError() { m.notifierErrors.Inc() }

// SetNotifierWorkers sets the number of running notifier workers.
func (m *Manager) SetNotifierWorkers(count int) { m.notifierWorkers.Set(float64(count)) }

// UpdateSystem records memory, goroutine and GC pause figures.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Package-level helpers delegate to the global manager.

func RecordSignup(activity, result string) { globalManager.RecordSignup(activity, result) }
func RecordUnregister(activity, result string) { globalManager.RecordUnregister(activity, result) }
func SetParticipants(activity string, count int) {
	globalManager.SetParticipants(activity, count)
}
func SetActivities(count int) { globalManager.SetActivities(count) }
func RecordStoreLatency(backend, operation string, latencyMs float64) {
	globalManager.RecordStoreLatency(backend, operation, latencyMs)
}
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}
func RecordErrorByType(errorType, severity string) { globalManager.RecordErrorByType(errorType, severity) }
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}
func UpdateQueue(size, capacity int) { globalManager.UpdateQueue(size, capacity) }
func RecordEventPublished() { globalManager.RecordEventPublished() }
func RecordEventDropped() { globalManager.RecordEventDropped() }
func RecordEventDelivered(latencyMs float64) { globalManager.RecordEventDelivered(latencyMs) }
func RecordNotifierError() { globalManager.RecordNotifierError() }
func SetNotifierWorkers(count int) { globalManager.SetNotifierWorkers(count) }
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
