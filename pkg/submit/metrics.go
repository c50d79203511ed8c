package submit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records submission outcomes. A nil *Metrics records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	roundTrip   *prometheus.HistogramVec
}

// NewMetrics registers the submission collectors on reg. Passing nil uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamjoin",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Form submit attempts by form and outcome.",
		}, []string{"form", "outcome"}),
		roundTrip: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "teamjoin",
			Subsystem: "form",
			Name:      "round_trip_seconds",
			Help:      "Duration of form submissions that reached the network.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
	}
}

func (m *Metrics) observe(formID string, outcome Outcome, elapsed time.Duration, sent bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(formID, string(outcome)).Inc()
	if sent {
		m.roundTrip.WithLabelValues(formID).Observe(elapsed.Seconds())
	}
}
