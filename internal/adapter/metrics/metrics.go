package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StorefrontMetrics holds all Prometheus metrics for the storefront service.
// It also satisfies logger.Metrics so the log router can report channel activity.
type StorefrontMetrics struct {
	LogEventsTotal     *prometheus.CounterVec
	LogDroppedTotal    *prometheus.CounterVec
	LogRotationsTotal  *prometheus.CounterVec
	LogWriteFailures   *prometheus.CounterVec
	ActionsTotal       *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ContentCacheHits   prometheus.Counter
	ContentCacheMisses prometheus.Counter
	LoginThrottled     prometheus.Counter
}

// NewStorefrontMetrics initializes the metrics and registers them with reg.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	factory := promauto.With(reg)
	return &StorefrontMetrics{
		LogEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "log",
			Name:      "events_total",
			Help:      "Total number of log records written by channel and level.",
		}, []string{"channel", "level"}),
		LogDroppedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "log",
			Name:      "dropped_total",
			Help:      "Total number of log records below the channel threshold.",
		}, []string{"channel"}),
		LogRotationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "log",
			Name:      "rotations_total",
			Help:      "Total number of log file rotations by channel.",
		}, []string{"channel"}),
		LogWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "log",
			Name:      "write_failures_total",
			Help:      "Total number of log records lost to write errors by channel.",
		}, []string{"channel"}),
		ActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "actions",
			Name:      "completed_total",
			Help:      "Total number of business actions by name and status.",
		}, []string{"action", "status"}), // status: success, error
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leatherstore",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route and status code.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "code"}),
		ContentCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "content",
			Name:      "cache_hits_total",
			Help:      "Total number of content block cache hits.",
		}),
		ContentCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "content",
			Name:      "cache_misses_total",
			Help:      "Total number of content block cache misses.",
		}),
		LoginThrottled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "leatherstore",
			Subsystem: "auth",
			Name:      "login_throttled_total",
			Help:      "Total number of login attempts rejected by the rate limiter.",
		}),
	}
}

func (m *StorefrontMetrics) EventWritten(channel, level string) {
	m.LogEventsTotal.WithLabelValues(channel, level).Inc()
}

func (m *StorefrontMetrics) EventDropped(channel string) {
	m.LogDroppedTotal.WithLabelValues(channel).Inc()
}

func (m *StorefrontMetrics) ActionCompleted(action, status string) {
	m.ActionsTotal.WithLabelValues(action, status).Inc()
}

func (m *StorefrontMetrics) Rotated(channel string) {
	m.LogRotationsTotal.WithLabelValues(channel).Inc()
}

func (m *StorefrontMetrics) WriteFailed(channel string) {
	m.LogWriteFailures.WithLabelValues(channel).Inc()
}
