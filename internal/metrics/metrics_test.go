package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"netmap/internal/domain"
	"netmap/internal/graph"
	"netmap/internal/simulation"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.SimulationTicksTotal == nil {
		t.Error("SimulationTicksTotal not initialized")
	}
	if r.SessionsActive == nil {
		t.Error("SessionsActive not initialized")
	}
	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("GET", "/api/scopes", "200", 10*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/scopes", "200", 20*time.Millisecond)
	r.RecordHTTPRequest("POST", "/api/sessions", "201", 5*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/api/scopes", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, counter); got != 2 {
		t.Errorf("Counter value = %v, want 2", got)
	}
}

func TestSimulationObserver(t *testing.T) {
	r := NewRegistry()

	devices := []domain.Device{
		{ID: "sw", Tags: []string{domain.TagSwitch}, ConnectedTo: []string{"a", "b"}},
		{ID: "a", Tags: []string{domain.TagDevice}},
		{ID: "b", Tags: []string{domain.TagDevice}},
	}
	sim := simulation.New(graph.Build(devices), 400, 300, simulation.Floor(), simulation.WithObserver(r))

	running, err := r.SimulationsRunning.GetMetricWithLabelValues(simulation.PresetFloor)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := gaugeValue(t, running); got != 1 {
		t.Errorf("Running gauge = %v, want 1", got)
	}

	steps := sim.Settle(10000)

	ticks, _ := r.SimulationTicksTotal.GetMetricWithLabelValues(simulation.PresetFloor)
	if got := counterValue(t, ticks); got != float64(steps) {
		t.Errorf("Tick counter = %v, want %d", got, steps)
	}
	settles, _ := r.SimulationSettlesTotal.GetMetricWithLabelValues(simulation.PresetFloor)
	if got := counterValue(t, settles); got != 1 {
		t.Errorf("Settle counter = %v, want 1", got)
	}
	if got := gaugeValue(t, running); got != 0 {
		t.Errorf("Running gauge after settle = %v, want 0", got)
	}
}

func TestSessionGauge(t *testing.T) {
	r := NewRegistry()

	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed()

	if got := gaugeValue(t, r.SessionsActive); got != 1 {
		t.Errorf("Sessions gauge = %v, want 1", got)
	}
}

func TestViewCounters(t *testing.T) {
	r := NewRegistry()

	r.RecordSelection()
	r.RecordFrame()
	r.RecordFrame()
	r.RecordGesture("click")

	tests := []struct {
		name     string
		counter  prometheus.Counter
		expected float64
	}{
		{"SelectionsTotal", r.SelectionsTotal, 1},
		{"FramesPublishedTotal", r.FramesPublishedTotal, 2},
		{"GesturesTotal", r.GesturesTotal.WithLabelValues("click"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counterValue(t, tt.counter); got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordSelection()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "netmap_selections_total 1") {
		t.Errorf("exposition missing selections counter:\n%s", rec.Body.String())
	}
}
