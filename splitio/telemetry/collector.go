package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/splitio/go-sdk-runtime/splitio/constants"
)

const namespace = "splitio"

// CollectorSource is the read-only view of the aggregator used for scraping
type CollectorSource interface {
	ImpressionTelemetryConsumer
	EventTelemetryConsumer
	SynchronizationTelemetryConsumer
	SDKInfoTelemetryConsumer
}

// Collector exposes the non destructive telemetry counters as prometheus metrics.
// Scraping never resets any category.
type Collector struct {
	source          CollectorSource
	impressions     *prometheus.Desc
	events          *prometheus.Desc
	lastSync        *prometheus.Desc
	sessionLengthMs *prometheus.Desc
}

// NewCollector builds a collector on top of the aggregator
func NewCollector(source CollectorSource) *Collector {
	return &Collector{
		source: source,
		impressions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "impressions", "total"),
			"Impressions processed by the runtime, by outcome.",
			[]string{"outcome"}, nil,
		),
		events: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "events", "total"),
			"Events processed by the runtime, by outcome.",
			[]string{"outcome"}, nil,
		),
		lastSync: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "last_synchronization", "timestamp_ms"),
			"Timestamp of the last successful synchronization, by resource.",
			[]string{"resource"}, nil,
		),
		sessionLengthMs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "length_ms"),
			"Length of the current session.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.impressions
	ch <- c.events
	ch <- c.lastSync
	ch <- c.sessionLengthMs
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	impressions := map[string]int64{
		"queued":  c.source.GetImpressionsStats(constants.ImpressionsQueued),
		"dropped": c.source.GetImpressionsStats(constants.ImpressionsDropped),
		"deduped": c.source.GetImpressionsStats(constants.ImpressionsDeduped),
	}
	for outcome, value := range impressions {
		ch <- prometheus.MustNewConstMetric(c.impressions, prometheus.CounterValue, float64(value), outcome)
	}

	events := map[string]int64{
		"queued":  c.source.GetEventsStats(constants.EventsQueued),
		"dropped": c.source.GetEventsStats(constants.EventsDropped),
	}
	for outcome, value := range events {
		ch <- prometheus.MustNewConstMetric(c.events, prometheus.CounterValue, float64(value), outcome)
	}

	lastSync := c.source.GetLastSynchronization()
	syncs := map[string]int64{
		"splits":           lastSync.Splits,
		"segments":         lastSync.Segments,
		"impressions":      lastSync.Impressions,
		"impressionsCount": lastSync.ImpressionsCount,
		"events":           lastSync.Events,
		"telemetry":        lastSync.Telemetry,
		"token":            lastSync.Token,
	}
	for resource, value := range syncs {
		ch <- prometheus.MustNewConstMetric(c.lastSync, prometheus.GaugeValue, float64(value), resource)
	}

	ch <- prometheus.MustNewConstMetric(c.sessionLengthMs, prometheus.GaugeValue, float64(c.source.GetSessionLength()))
}

var _ prometheus.Collector = (*Collector)(nil)
