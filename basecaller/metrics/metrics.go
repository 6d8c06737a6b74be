// Package metrics exposes Prometheus collectors for basecalling. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"Nanopore-HMM-Basecaller/basecaller/common"
)

const namespace = "basecaller"

// Algorithm labels.
const (
	Viterbi = "viterbi"
	Forward = "forward"
	Sample  = "sample"
)

// Metrics holds the decode collectors.
type Metrics struct {
	Decodes  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Events   prometheus.Counter
	Bases    prometheus.Counter
}

// New creates the collectors and registers them with reg (skipped when reg is nil).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decodes_total",
			Help:      "Decode runs by algorithm and outcome code.",
		}, []string{"algorithm", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_seconds",
			Help:      "Wall time of one decode run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		Events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events fed to the Viterbi decoder.",
		}),
		Bases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bases_total",
			Help:      "Bases emitted by path translation.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Decodes, m.Duration, m.Events, m.Bases)
	}
	return m
}

// Observe records one decode run that started at start and ended with err.
func (m *Metrics) Observe(algorithm string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.Decodes.WithLabelValues(algorithm, string(common.Classify(err))).Inc()
	m.Duration.WithLabelValues(algorithm).Observe(time.Since(start).Seconds())
}

// Called records the size of a successful call.
func (m *Metrics) Called(events, bases int) {
	if m == nil {
		return
	}
	m.Events.Add(float64(events))
	m.Bases.Add(float64(bases))
}
