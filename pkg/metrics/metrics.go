// Package metrics provides Prometheus metrics for a wagescout run.
//
// The process is a one-shot batch pipeline, so the metrics are not served
// over HTTP: they accumulate on a private registry during the run and are
// gathered into a summary at the end.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the run's Prometheus metrics.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	rowsLoaded       *prometheus.CounterVec
	missingWageCells prometheus.Counter
	socMatches       prometheus.Counter
	eligibleRows     prometheus.Counter
	lostJoinRows     prometheus.Counter
	runDuration      prometheus.Histogram
}

// NewManager creates a metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "wagescout",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rows_loaded_total",
		Help:      "Rows loaded from the input tables, by table.",
	}, []string{"table"})

	m.missingWageCells = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "missing_wage_cells_total",
		Help:      "Wage cells coerced to the missing marker during load.",
	})

	m.socMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "soc_matches_total",
		Help:      "Wage rows matching the requested SOC code.",
	})

	m.eligibleRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "eligible_rows_total",
		Help:      "SOC matches satisfying the wage comparison.",
	})

	m.lostJoinRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "lost_join_rows_total",
		Help:      "Eligible rows dropped for lack of a geography match.",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of the whole pipeline run.",
		Buckets:   prometheus.DefBuckets,
	})

	return m
}

// RowsLoaded records rows read from one input table.
func (m *Manager) RowsLoaded(table string, n int) {
	m.rowsLoaded.WithLabelValues(table).Add(float64(n))
}

// MissingWageCells records wage cells coerced to the missing marker.
func (m *Manager) MissingWageCells(n int) { m.missingWageCells.Add(float64(n)) }

// SocMatches records rows matching the SOC filter.
func (m *Manager) SocMatches(n int) { m.socMatches.Add(float64(n)) }

// EligibleRows records rows passing the wage comparison.
func (m *Manager) EligibleRows(n int) { m.eligibleRows.Add(float64(n)) }

// LostJoinRows records eligible rows with no geography match.
func (m *Manager) LostJoinRows(n int) { m.lostJoinRows.Add(float64(n)) }

// RunDuration records the run's wall-clock duration in seconds.
func (m *Manager) RunDuration(seconds float64) { m.runDuration.Observe(seconds) }

// Sample is one gathered metric value.
type Sample struct {
	Name  string
	Label string
	Value float64
}

// Gather flattens the registry into sorted samples for the end-of-run
// summary log. Histograms surface as their sample sum.
func (m *Manager) Gather() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			s := Sample{Name: fam.GetName()}
			if labels := metric.GetLabel(); len(labels) > 0 {
				s.Label = labels[0].GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				s.Value = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				s.Value = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				s.Value = metric.GetHistogram().GetSampleSum()
			}
			samples = append(samples, s)
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Label < samples[j].Label
	})
	return samples, nil
}
