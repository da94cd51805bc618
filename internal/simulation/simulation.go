// Package simulation implements the iterative force solver that lays out a
// graph. Each Step applies link, many-body, centering, collision and axis
// forces, integrates velocities and cools alpha toward its target. The run
// completes once alpha falls below the preset's AlphaMin.
//
// A Simulation is not safe for concurrent use; the owning view serializes
// access.
package simulation

import (
	"math"

	"netmap/internal/graph"
	"netmap/internal/style"
)

// phyllotaxis seeding
const (
	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Position is a node position emitted on tick
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// TickFunc receives the positions of every non-pinned node after a tick
type TickFunc func([]Position)

// Observer is notified of simulation progress
type Observer interface {
	SimulationTick(preset string)
	SimulationSettled(preset string, ticks int)
	SimulationRunning(preset string, delta int)
}

// Option configures a Simulation
type Option func(*Simulation)

// WithRadius overrides the per-node collision radius
func WithRadius(fn func(*graph.Node) float64) Option {
	return func(s *Simulation) {
		s.radius = fn
	}
}

// WithObserver attaches a progress observer
func WithObserver(o Observer) Option {
	return func(s *Simulation) {
		s.observer = o
	}
}

// WithSeed sets the jiggle generator seed
func WithSeed(seed uint32) Option {
	return func(s *Simulation) {
		s.rng = lcg(seed)
	}
}

// Simulation runs a preset over one graph
type Simulation struct {
	g      *graph.Graph
	preset Preset

	alpha       float64
	alphaTarget float64
	cx, cy      float64

	running bool
	ticks   int

	radius    func(*graph.Node) float64
	radii     []float64
	listeners []TickFunc
	observer  Observer
	rng       lcg
}

// New creates a simulation centered in a width x height viewport. Nodes
// without a position are seeded on a spiral around the center. An empty
// graph is complete immediately and a single node is placed at the center.
func New(g *graph.Graph, width, height float64, preset Preset, opts ...Option) *Simulation {
	if preset.VelocityDecay == 0 {
		preset.VelocityDecay = DefaultVelocityDecay
	}
	s := &Simulation{
		g:      g,
		preset: preset,
		alpha:  preset.Alpha,
		cx:     width / 2,
		cy:     height / 2,
		rng:    lcg(1),
	}
	s.radius = s.defaultRadius
	for _, opt := range opts {
		opt(s)
	}

	s.radii = make([]float64, g.Len())
	for i, n := range g.Nodes {
		s.radii[i] = s.radius(n)
	}

	s.seed()

	switch g.Len() {
	case 0:
	case 1:
		n := g.Nodes[0]
		if !n.Pinned() {
			n.Place(s.cx, s.cy)
		}
	default:
		s.setRunning(true)
	}

	return s
}

func (s *Simulation) defaultRadius(n *graph.Node) float64 {
	return s.preset.CollisionRadius * style.Radius(n.Kind) / style.DefaultRadius
}

func (s *Simulation) seed() {
	for i, n := range s.g.Nodes {
		if n.Placed() {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		n.Place(s.cx+r*math.Cos(angle), s.cy+r*math.Sin(angle))
		n.VX, n.VY = 0, 0
	}
}

func (s *Simulation) setRunning(running bool) {
	if s.running == running {
		return
	}
	s.running = running
	if s.observer != nil {
		delta := -1
		if running {
			delta = 1
		}
		s.observer.SimulationRunning(s.preset.Name, delta)
	}
}

// Graph returns the simulated graph
func (s *Simulation) Graph() *graph.Graph {
	return s.g
}

// Preset returns the active preset
func (s *Simulation) Preset() Preset {
	return s.preset
}

// Running reports whether further steps will move nodes
func (s *Simulation) Running() bool {
	return s.running
}

// Alpha returns the current temperature
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// AlphaTarget returns the temperature alpha cools toward
func (s *Simulation) AlphaTarget() float64 {
	return s.alphaTarget
}

// Ticks returns the number of steps taken
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Center returns the centering target
func (s *Simulation) Center() (float64, float64) {
	return s.cx, s.cy
}

// OnTick registers a listener for tick positions
func (s *Simulation) OnTick(fn TickFunc) {
	s.listeners = append(s.listeners, fn)
}

// Stop halts the run; later steps are no-ops until Restart
func (s *Simulation) Stop() {
	s.setRunning(false)
}

// Restart resumes stepping at the current alpha
func (s *Simulation) Restart() {
	if s.g.Len() == 0 {
		return
	}
	s.setRunning(true)
}

// Reheat raises alpha to at least a and resumes stepping
func (s *Simulation) Reheat(a float64) {
	if a > s.alpha {
		s.alpha = a
	}
	s.Restart()
}

// SetAlphaTarget sets the temperature alpha cools toward. A positive target
// keeps the run alive, as while dragging.
func (s *Simulation) SetAlphaTarget(t float64) {
	s.alphaTarget = t
}

// SetCenter moves the centering and axis targets
func (s *Simulation) SetCenter(x, y float64) {
	s.cx, s.cy = x, y
}

// Step advances one tick. It returns whether the run is still going.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.preset.AlphaDecay

	s.applyLink()
	s.applyManyBody()
	s.applyCenter()
	s.applyCollide()
	s.applyAxis()
	s.integrate()

	s.ticks++
	if s.observer != nil {
		s.observer.SimulationTick(s.preset.Name)
	}
	s.emit()

	if s.alpha < s.preset.AlphaMin {
		s.setRunning(false)
		if s.observer != nil {
			s.observer.SimulationSettled(s.preset.Name, s.ticks)
		}
	}
	return s.running
}

// Settle steps until the run completes or maxSteps is reached and returns
// the number of steps taken.
func (s *Simulation) Settle(maxSteps int) int {
	steps := 0
	for steps < maxSteps && s.running {
		s.Step()
		steps++
	}
	return steps
}

// Positions returns every node position
func (s *Simulation) Positions() []Position {
	out := make([]Position, 0, s.g.Len())
	for _, n := range s.g.Nodes {
		out = append(out, Position{ID: n.ID(), X: n.X, Y: n.Y})
	}
	return out
}

func (s *Simulation) emit() {
	if len(s.listeners) == 0 {
		return
	}
	out := make([]Position, 0, s.g.Len())
	for _, n := range s.g.Nodes {
		if n.Pinned() {
			continue
		}
		out = append(out, Position{ID: n.ID(), X: n.X, Y: n.Y})
	}
	for _, fn := range s.listeners {
		fn(out)
	}
}

func (s *Simulation) integrate() {
	keep := 1 - s.preset.VelocityDecay
	for _, n := range s.g.Nodes {
		if n.Pin != nil {
			n.X, n.Y = n.Pin.X, n.Pin.Y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}
}
