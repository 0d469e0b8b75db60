package fleet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printwatch_fleet_polls_total",
		Help: "Printer polls grouped by resulting status.",
	}, []string{"status"})

	pollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "printwatch_fleet_poll_duration_seconds",
		Help:    "Duration of individual printer polls.",
		Buckets: prometheus.DefBuckets,
	})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "printwatch_fleet_sweep_duration_seconds",
		Help:    "Duration of full fleet sweeps.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	printersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "printwatch_fleet_printers",
		Help: "Number of printers currently enrolled.",
	})
)
