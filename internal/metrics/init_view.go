package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initViewMetrics() {
	r.SelectionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netmap_selections_total",
			Help: "Total number of node selections",
		},
	)

	r.GesturesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netmap_gestures_total",
			Help: "Total number of completed pointer gestures",
		},
		[]string{"kind"},
	)

	r.FramesPublishedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netmap_frames_published_total",
			Help: "Total number of frames published to clients",
		},
	)

	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netmap_sessions_active",
			Help: "Current number of open sessions",
		},
	)
}
