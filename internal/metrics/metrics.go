package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulationTick counts one simulation step
func (r *Registry) SimulationTick(preset string) {
	r.SimulationTicksTotal.WithLabelValues(preset).Inc()
}

// SimulationSettled records a simulation cooling down after ticks steps
func (r *Registry) SimulationSettled(preset string, ticks int) {
	r.SimulationSettlesTotal.WithLabelValues(preset).Inc()
	r.SimulationSettleTicks.WithLabelValues(preset).Observe(float64(ticks))
}

// SimulationRunning adjusts the running gauge by delta
func (r *Registry) SimulationRunning(preset string, delta int) {
	r.SimulationsRunning.WithLabelValues(preset).Add(float64(delta))
}

// RecordSelection counts a node selection
func (r *Registry) RecordSelection() {
	r.SelectionsTotal.Inc()
}

// RecordGesture counts a completed pointer gesture by event kind
func (r *Registry) RecordGesture(kind string) {
	r.GesturesTotal.WithLabelValues(kind).Inc()
}

// RecordFrame counts a published frame
func (r *Registry) RecordFrame() {
	r.FramesPublishedTotal.Inc()
}

// SessionOpened increments the open sessions gauge
func (r *Registry) SessionOpened() {
	r.SessionsActive.Inc()
}

// SessionClosed decrements the open sessions gauge
func (r *Registry) SessionClosed() {
	r.SessionsActive.Dec()
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
