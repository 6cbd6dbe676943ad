package lambda

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records adapter invocations. A nil *Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the adapter collectors and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "adapter",
			Name:      "invocations_total",
			Help:      "Adapter invocations by reply status code",
		}, []string{"status"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "adapter",
			Name:      "failures_total",
			Help:      "Adapter failures by class",
		}, []string{"class"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Subsystem: "adapter",
			Name:      "invocation_duration_seconds",
			Help:      "Time spent handling one invocation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(status int, since time.Time) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(strconv.Itoa(status)).Inc()
	m.duration.Observe(time.Since(since).Seconds())
}

func (m *Metrics) failure(class FailureClass) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(class)).Inc()
}
