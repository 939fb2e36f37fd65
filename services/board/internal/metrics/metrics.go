package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the board service
type Metrics struct {
	// Session lifecycle metrics
	SignIns  *prometheus.CounterVec
	SignOuts *prometheus.CounterVec

	// Entitlement metrics
	PlanChecks *prometheus.CounterVec

	// Upgrade metrics
	Checkouts *prometheus.CounterVec

	// Solver metrics
	Solves        *prometheus.CounterVec
	SolveDuration prometheus.Histogram

	// Tab metrics
	ActiveTabs prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SignIns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_sign_ins_total",
				Help: "Total number of sign-in attempts",
			},
			[]string{"method", "outcome"},
		),
		SignOuts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_sign_outs_total",
				Help: "Total number of sign-outs by cause",
			},
			[]string{"cause"},
		),
		PlanChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_plan_checks_total",
				Help: "Total number of plan derivations",
			},
			[]string{"plan", "query_failed"},
		),
		Checkouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_checkouts_total",
				Help: "Total number of checkout steps by outcome",
			},
			[]string{"step", "outcome"},
		),
		Solves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_solves_total",
				Help: "Total number of solve requests by outcome",
			},
			[]string{"outcome"},
		),
		SolveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "board_solve_duration_seconds",
				Help:    "Duration of generative model calls",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
		),
		ActiveTabs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "board_active_tabs",
				Help: "Number of tabs currently held in memory",
			},
		),
	}
}
