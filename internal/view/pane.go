package view

import (
	"math"

	"netmap/internal/graph"
	"netmap/internal/interaction"
	"netmap/internal/simulation"
	"netmap/internal/style"
)

// PaneID names one of the renderer's panes
type PaneID string

const (
	PaneMain    PaneID = "main"
	PaneSidebar PaneID = "sidebar"
)

// pane is one simulated view: graph, simulation, viewport and gesture machine
type pane struct {
	id       PaneID
	graph    *graph.Graph
	sim      *simulation.Simulation
	viewport *interaction.Viewport
	machine  *interaction.Machine
	width    float64
	height   float64
}

func newPane(id PaneID, zoom ZoomRange, cfg interaction.Config, width, height float64) *pane {
	p := &pane{
		id:       id,
		graph:    graph.Build(nil),
		viewport: interaction.NewViewport(zoom.Min, zoom.Max),
		width:    width,
		height:   height,
	}
	p.machine = interaction.New(p, p.viewport, cfg)
	return p
}

// load replaces the pane's graph and starts a fresh simulation on it
func (p *pane) load(g *graph.Graph, preset simulation.Preset, opts ...simulation.Option) {
	p.stop()
	p.machine.Cancel()
	p.graph = g
	p.sim = simulation.New(g, p.width, p.height, preset, opts...)
}

func (p *pane) stop() {
	if p.sim != nil {
		p.sim.Stop()
	}
}

func (p *pane) running() bool {
	return p.sim != nil && p.sim.Running()
}

func (p *pane) step() {
	if p.sim != nil {
		p.sim.Step()
	}
}

func (p *pane) resize(width, height float64) {
	p.width, p.height = width, height
	if p.sim == nil {
		return
	}
	p.sim.SetCenter(width/2, height/2)
	p.sim.Reheat(resizeAlpha)
}

// NodeAt returns the topmost node whose circle contains the world point
func (p *pane) NodeAt(x, y float64) (string, bool) {
	for i := len(p.graph.Nodes) - 1; i >= 0; i-- {
		n := p.graph.Nodes[i]
		if math.Hypot(n.X-x, n.Y-y) <= style.Radius(n.Kind) {
			return n.ID(), true
		}
	}
	return "", false
}

// NodePosition returns a node's world position
func (p *pane) NodePosition(id string) (float64, float64, bool) {
	n, ok := p.graph.Node(id)
	if !ok {
		return 0, 0, false
	}
	return n.X, n.Y, true
}

// PinNode fixes a node at a world position
func (p *pane) PinNode(id string, x, y float64) {
	if n, ok := p.graph.Node(id); ok {
		n.PinAt(x, y)
	}
}

// UnpinNode releases a node's pin
func (p *pane) UnpinNode(id string) {
	if n, ok := p.graph.Node(id); ok {
		n.Unpin()
	}
}

// Heat sets the alpha target; a positive target restarts the simulation
func (p *pane) Heat(alphaTarget float64) {
	if p.sim == nil {
		return
	}
	p.sim.SetAlphaTarget(alphaTarget)
	if alphaTarget > 0 {
		p.sim.Restart()
	}
}
