package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockAnalyst/internal/model"
)

// Metrics collects run outcomes on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       prometheus.Counter
	runsRejected    prometheus.Counter
	runDuration     prometheus.Histogram
	instrumentsLast prometheus.Gauge
	recommendations *prometheus.CounterVec
	failures        *prometheus.CounterVec
	lastRunTime     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		runsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "stockanalyst_runs_total",
			Help: "Total number of completed analysis runs",
		}),
		runsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "stockanalyst_runs_rejected_total",
			Help: "Refresh requests rejected because a run was in progress",
		}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockanalyst_run_duration_seconds",
			Help:    "Wall time of one analysis run",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}),
		instrumentsLast: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockanalyst_last_run_instruments",
			Help: "Analyzed instruments in the last run",
		}),
		recommendations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockanalyst_recommendations_total",
			Help: "Recommendations produced, by value",
		}, []string{"recommendation", "fallback"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockanalyst_instrument_failures_total",
			Help: "Instrument failures, by pipeline stage",
		}, []string{"stage"}),
		lastRunTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockanalyst_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// ObserveRun records a completed report.
func (m *Metrics) ObserveRun(report *model.RunReport) {
	if report == nil {
		return
	}
	m.runsTotal.Inc()
	m.runDuration.Observe(report.Duration().Seconds())
	m.instrumentsLast.Set(float64(len(report.Instruments)))
	m.lastRunTime.Set(float64(report.FinishedAt.Unix()))
	for _, a := range report.Instruments {
		fallback := "false"
		if a.Analysis.Fallback {
			fallback = "true"
		}
		m.recommendations.WithLabelValues(string(a.Analysis.Recommendation), fallback).Inc()
	}
	for _, f := range report.Failures {
		m.failures.WithLabelValues(string(f.Stage)).Inc()
	}
}

// ObserveRejected records a refresh refused by the in-progress guard.
func (m *Metrics) ObserveRejected() {
	m.runsRejected.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
