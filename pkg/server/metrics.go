package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sessionMetrics are the server's Prometheus collectors, registered once
// on the default registry.
type sessionMetrics struct {
	activeSessions prometheus.Gauge
	eventsTotal    *prometheus.CounterVec
	eventDuration  prometheus.Histogram
	patchesSent    prometheus.Counter
	patchBatchSize prometheus.Histogram
}

var (
	metricsOnce sync.Once
	metrics     *sessionMetrics
)

func getMetrics() *sessionMetrics {
	metricsOnce.Do(func() {
		metrics = &sessionMetrics{
			activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "unison",
				Subsystem: "server",
				Name:      "active_sessions",
				Help:      "Number of live sessions.",
			}),
			eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "unison",
				Subsystem: "server",
				Name:      "events_total",
				Help:      "Client events handled, by event type.",
			}, []string{"type"}),
			eventDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "unison",
				Subsystem: "server",
				Name:      "event_duration_seconds",
				Help:      "Time from event receipt to patch emission.",
				Buckets:   prometheus.DefBuckets,
			}),
			patchesSent: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "unison",
				Subsystem: "server",
				Name:      "patches_sent_total",
				Help:      "Total tree patches sent to clients.",
			}),
			patchBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "unison",
				Subsystem: "server",
				Name:      "patch_batch_size",
				Help:      "Patches per batch.",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
			}),
		}
	})
	return metrics
}

func setActiveSessions(n int) {
	getMetrics().activeSessions.Set(float64(n))
}

func recordEvent(eventType string, seconds float64) {
	m := getMetrics()
	m.eventsTotal.WithLabelValues(eventType).Inc()
	m.eventDuration.Observe(seconds)
}

func recordPatchesSent(count int) {
	m := getMetrics()
	m.patchesSent.Add(float64(count))
	m.patchBatchSize.Observe(float64(count))
}
