package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"radiomon/internal/models"
	"radiomon/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	ObserveTickDuration(duration time.Duration)
	AddPlaysDetected(campaignID string, count int)
	IncAlertsSent(channel string)
	IncFetchErrors(campaignID string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	tickDuration        prometheus.Histogram
	playsDetected       *prometheus.CounterVec
	alertsSent          *prometheus.CounterVec
	fetchErrors         *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveTickDuration(duration time.Duration) {
	m.tickDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddPlaysDetected(campaignID string, count int) {
	m.playsDetected.WithLabelValues(campaignID).Add(float64(count))
}

func (m *MetricsProvider) IncAlertsSent(channel string) {
	m.alertsSent.WithLabelValues(channel).Inc()
}

func (m *MetricsProvider) IncFetchErrors(campaignID string) {
	m.fetchErrors.WithLabelValues(campaignID).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, registry *models.CampaignRegistry, analytics *models.Analytics) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "radiomon_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "radiomon_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiomon_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiomon_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "radiomon_persistence_duration_seconds",
			Help:    "Duration of snapshot save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		tickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "radiomon_tick_duration_seconds",
			Help:    "Duration of poll ticks in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		playsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "radiomon_plays_detected_total",
			Help: "Total number of new plays detected per campaign",
		}, []string{"campaign"}),

		alertsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "radiomon_alerts_sent_total",
			Help: "Total number of alerts delivered per channel",
		}, []string{"channel"}),

		fetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "radiomon_fetch_errors_total",
			Help: "Total number of failed play-source fetches per campaign",
		}, []string{"campaign"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "radiomon_active_campaigns",
		Help: "Current number of actively monitored campaigns",
	}, func() float64 {
		return float64(registry.ActiveCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "radiomon_timeline_size",
		Help: "Current number of entries in the global play timeline",
	}, func() float64 {
		return float64(analytics.TimelineLen())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveTickDuration(_ time.Duration)              {}
func (n *noopMetrics) AddPlaysDetected(_ string, _ int)                 {}
func (n *noopMetrics) IncAlertsSent(_ string)                           {}
func (n *noopMetrics) IncFetchErrors(_ string)                          {}
