package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimulationTicksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netmap_simulation_ticks_total",
			Help: "Total number of force simulation steps",
		},
		[]string{"preset"},
	)

	r.SimulationSettlesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netmap_simulation_settles_total",
			Help: "Total number of simulations that cooled below the minimum alpha",
		},
		[]string{"preset"},
	)

	r.SimulationSettleTicks = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netmap_simulation_settle_ticks",
			Help:    "Steps a simulation ran before settling",
			Buckets: []float64{10, 50, 100, 200, 300, 500, 1000},
		},
		[]string{"preset"},
	)

	r.SimulationsRunning = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netmap_simulations_running",
			Help: "Current number of running simulations",
		},
		[]string{"preset"},
	)
}
