package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the experience.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	frameBuckets     []float64
	registry         prometheus.Registerer

	// Sequence metrics
	phaseTransitions *prometheus.CounterVec
	sequenceRestarts prometheus.Counter
	breakthroughs    prometheus.Counter

	// Coherence metrics
	signatures     *prometheus.CounterVec
	signatureCount prometheus.Gauge
	stability      prometheus.Gauge
	stabilized     prometheus.Counter

	// Input metrics
	variantSwitches *prometheus.CounterVec

	// Runtime metrics
	frameDuration prometheus.Histogram
	pendingTimers prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fracture",
		subsystem:        "experience",
		histogramBuckets: prometheus.DefBuckets,
		frameBuckets:     []float64{1, 2, 4, 8, 16, 33, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.phaseTransitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "phase_transitions_total",
			Help:      "Total number of phase transitions by target phase",
		},
		[]string{"phase"},
	)

	m.sequenceRestarts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sequence_restarts_total",
		Help:      "Total number of times the phase sequence was (re)started",
	})

	m.breakthroughs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "breakthroughs_total",
		Help:      "Total number of breakthrough pulses",
	})

	m.signatures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "signatures_total",
			Help:      "Total number of signatures added by kind (user or simulated)",
		},
		[]string{"kind"},
	)

	m.signatureCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signature_count",
		Help:      "Current number of signatures in the coherence field",
	})

	m.stability = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stability_ratio",
		Help:      "Current coherence stability in [0,1]",
	})

	m.stabilized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stabilized_total",
		Help:      "Total number of times the signal was stabilized",
	})

	m.variantSwitches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "variant_switches_total",
			Help:      "Total number of variant switches by kind and variant",
		},
		[]string{"kind", "variant"},
	)

	m.frameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_duration_milliseconds",
		Help:      "Histogram of simulated frame durations in milliseconds",
		Buckets:   m.frameBuckets,
	})

	m.pendingTimers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pending_timers",
		Help:      "Current number of scheduled timers (leak indicator)",
	})

	// HTTP Performance Metrics - diagnostics listener
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})
}

// RecordPhaseTransition increments the transition counter for phase.
func RecordPhaseTransition(phase string) {
	globalManager.phaseTransitions.WithLabelValues(phase).Inc()
}

// RecordSequenceRestart increments the sequence restart counter.
func RecordSequenceRestart() {
	globalManager.sequenceRestarts.Inc()
}

// RecordBreakthrough increments the breakthrough pulse counter.
func RecordBreakthrough() {
	globalManager.breakthroughs.Inc()
}

// RecordSignature increments the signature counter for kind.
func RecordSignature(kind string) {
	globalManager.signatures.WithLabelValues(kind).Inc()
}

// UpdateSignatureCount sets the current signature count.
func UpdateSignatureCount(count int) {
	globalManager.signatureCount.Set(float64(count))
}

// UpdateStability sets the current stability.
func UpdateStability(stability float64) {
	globalManager.stability.Set(stability)
}

// RecordStabilized increments the stabilized counter.
func RecordStabilized() {
	globalManager.stabilized.Inc()
}

// RecordVariantSwitch records a signal or coherence variant switch.
func RecordVariantSwitch(kind, variant string) {
	globalManager.variantSwitches.WithLabelValues(kind, variant).Inc()
}

// RecordFrame records a simulated frame duration in milliseconds.
func RecordFrame(durationMs float64) {
	globalManager.frameDuration.Observe(durationMs)
}

// UpdatePendingTimers sets the number of scheduled timers.
func UpdatePendingTimers(count int) {
	globalManager.pendingTimers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError increments the error counter for an endpoint.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
