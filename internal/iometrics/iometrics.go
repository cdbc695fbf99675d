// Package iometrics records run metrics with Prometheus collectors and
// writes them in the text exposition format, ready for node_exporter's
// textfile collector.
package iometrics

import (
	"time"

	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gnmsf"

// Metrics holds the collectors of one run.
type Metrics struct {
	reg *prometheus.Registry

	RunDuration      prometheus.Gauge
	RunTimestamp     prometheus.Gauge
	Replicons        prometheus.Gauge
	Models           prometheus.Gauge
	Hits             prometheus.Gauge
	CandidatesTotal  *prometheus.CounterVec
	OccurrencesTotal *prometheus.CounterVec
	DiagnosticsTotal *prometheus.CounterVec
	SwapRounds       prometheus.Gauge
	Swaps            prometheus.Gauge
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last search run.",
		}),
		RunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_timestamp_seconds",
			Help:      "Unix time the last search run finished.",
		}),
		Replicons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replicons",
			Help:      "Replicons searched.",
		}),
		Models: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "models",
			Help:      "Valid models searched.",
		}),
		Hits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hits",
			Help:      "Hits retained in the index.",
		}),
		CandidatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidates by final state.",
		}, []string{"state"}),
		OccurrencesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "occurrences_total",
			Help:      "Selected system occurrences by model.",
		}, []string{"model"}),
		DiagnosticsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics by kind and reason.",
		}, []string{"kind", "reason"}),
		SwapRounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "swap_rounds",
			Help:      "Local exchange rounds of conflict resolution.",
		}),
		Swaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "swaps",
			Help:      "Accepted local exchanges.",
		}),
	}

	m.reg.MustRegister(
		m.RunDuration, m.RunTimestamp, m.Replicons, m.Models, m.Hits,
		m.CandidatesTotal, m.OccurrencesTotal, m.DiagnosticsTotal,
		m.SwapRounds, m.Swaps,
	)
	return m
}

// Observe records a finished run.
func (m *Metrics) Observe(
	res *engine.Result,
	dur time.Duration,
	finished time.Time,
) {
	st := res.Stats
	m.RunDuration.Set(dur.Seconds())
	m.RunTimestamp.Set(float64(finished.Unix()))
	m.Replicons.Set(float64(st.Replicons))
	m.Models.Set(float64(st.Models))
	m.Hits.Set(float64(st.Hits))
	m.SwapRounds.Set(float64(st.SwapRounds))
	m.Swaps.Set(float64(st.Swaps))

	m.CandidatesTotal.WithLabelValues("accepted").Add(float64(st.Accepted))
	m.CandidatesTotal.WithLabelValues("rejected").Add(float64(st.Rejected))
	m.CandidatesTotal.WithLabelValues("selected").Add(float64(st.Selected))
	m.CandidatesTotal.WithLabelValues("discarded").Add(float64(st.Discarded))

	for _, o := range res.Occurrences {
		m.OccurrencesTotal.WithLabelValues(o.ModelID).Inc()
	}
	for _, d := range res.Diagnostics {
		m.DiagnosticsTotal.WithLabelValues(d.Kind.String(),
			string(d.Reason)).Inc()
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteFile writes all metrics to a text file atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return WriteError(path, err)
	}
	return nil
}
