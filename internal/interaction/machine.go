// Package interaction turns raw pointer input on one pane into pan, zoom,
// drag and click gestures.
//
// Each pane owns its own Machine; gesture state lives in the Machine, never
// in package globals. The Machine is the only component that sets or clears
// node pins.
package interaction

import (
	"math"
)

// Defaults for gesture handling
const (
	DefaultDragThreshold   = 3
	DefaultDragAlphaTarget = 0.3

	// wheelScale converts wheel delta to a base-2 zoom exponent
	wheelScale = 0.002
)

// State is the gesture state of a Machine
type State int

const (
	StateIdle State = iota
	StatePointerDown
	StateDragging
	StatePanning
)

func (s State) String() string {
	switch s {
	case StatePointerDown:
		return "pointer-down"
	case StateDragging:
		return "dragging"
	case StatePanning:
		return "panning"
	default:
		return "idle"
	}
}

// EventKind classifies the outcome of a gesture
type EventKind string

const (
	EventNone    EventKind = ""
	EventClick   EventKind = "click"
	EventDragEnd EventKind = "drag-end"
	EventPanEnd  EventKind = "pan-end"
)

// Event is emitted when a gesture completes
type Event struct {
	Kind   EventKind `json:"kind"`
	NodeID string    `json:"nodeId,omitempty"`
}

// Target is the pane a Machine drives. Coordinates are in world space.
type Target interface {
	NodeAt(x, y float64) (string, bool)
	NodePosition(id string) (float64, float64, bool)
	PinNode(id string, x, y float64)
	UnpinNode(id string)
	// Heat sets the simulation's alpha target; a positive target restarts it
	Heat(alphaTarget float64)
}

// Config tunes gesture classification
type Config struct {
	// DragThreshold is the cumulative pointer travel, in screen pixels, that
	// turns a press into a drag
	DragThreshold float64
	// DragAlphaTarget keeps the simulation warm while a node is held
	DragAlphaTarget float64
}

// DefaultConfig returns the standard gesture settings
func DefaultConfig() Config {
	return Config{DragThreshold: DefaultDragThreshold, DragAlphaTarget: DefaultDragAlphaTarget}
}

// gesture holds the state of the gesture in progress
type gesture struct {
	lastX, lastY float64
	travel       float64
	nodeID       string
	// offset from the pointer to the held node's center, in world space
	offsetX, offsetY float64
}

// Machine classifies pointer input for one pane
type Machine struct {
	cfg      Config
	target   Target
	viewport *Viewport

	state State
	g     gesture
}

// New creates a Machine for a pane
func New(target Target, viewport *Viewport, cfg Config) *Machine {
	if cfg.DragThreshold < 0 {
		cfg.DragThreshold = 0
	}
	return &Machine{cfg: cfg, target: target, viewport: viewport}
}

// State returns the current gesture state
func (m *Machine) State() State {
	return m.state
}

// HeldNode returns the node under the current press or drag, if any
func (m *Machine) HeldNode() (string, bool) {
	if m.state == StatePointerDown || m.state == StateDragging {
		return m.g.nodeID, true
	}
	return "", false
}

// Viewport returns the pane's viewport
func (m *Machine) Viewport() *Viewport {
	return m.viewport
}

// PointerDown starts a gesture at a screen point. Pressing a node pins it in
// place and heats the simulation; pressing the background starts a pan.
func (m *Machine) PointerDown(sx, sy float64) {
	if m.state != StateIdle {
		m.Cancel()
	}
	m.g = gesture{lastX: sx, lastY: sy}

	wx, wy := m.viewport.Transform().Invert(sx, sy)
	id, ok := m.target.NodeAt(wx, wy)
	if !ok {
		m.state = StatePanning
		return
	}
	nx, ny, ok := m.target.NodePosition(id)
	if !ok {
		m.state = StatePanning
		return
	}

	m.g.nodeID = id
	m.g.offsetX, m.g.offsetY = nx-wx, ny-wy
	m.target.PinNode(id, nx, ny)
	m.target.Heat(m.cfg.DragAlphaTarget)
	m.state = StatePointerDown
}

// PointerMove advances the gesture to a screen point
func (m *Machine) PointerMove(sx, sy float64) {
	dx, dy := sx-m.g.lastX, sy-m.g.lastY
	m.g.lastX, m.g.lastY = sx, sy

	switch m.state {
	case StatePanning:
		m.viewport.Pan(dx, dy)
	case StatePointerDown:
		m.g.travel += math.Hypot(dx, dy)
		if m.g.travel > m.cfg.DragThreshold {
			m.state = StateDragging
			m.follow(sx, sy)
		}
	case StateDragging:
		m.follow(sx, sy)
	}
}

func (m *Machine) follow(sx, sy float64) {
	wx, wy := m.viewport.Transform().Invert(sx, sy)
	m.target.PinNode(m.g.nodeID, wx+m.g.offsetX, wy+m.g.offsetY)
}

// PointerUp completes the gesture at a screen point
func (m *Machine) PointerUp(sx, sy float64) Event {
	if m.state == StateIdle {
		return Event{}
	}
	m.PointerMove(sx, sy)
	return m.release()
}

// Cancel completes the gesture at the last known pointer position, as when
// the pointer is released outside the canvas.
func (m *Machine) Cancel() Event {
	if m.state == StateIdle {
		return Event{}
	}
	return m.release()
}

func (m *Machine) release() Event {
	state, id := m.state, m.g.nodeID
	m.state = StateIdle
	m.g = gesture{}

	switch state {
	case StatePointerDown:
		m.target.UnpinNode(id)
		m.target.Heat(0)
		return Event{Kind: EventClick, NodeID: id}
	case StateDragging:
		m.target.UnpinNode(id)
		m.target.Heat(0)
		return Event{Kind: EventDragEnd, NodeID: id}
	case StatePanning:
		return Event{Kind: EventPanEnd}
	}
	return Event{}
}

// Wheel zooms around a screen point. Negative deltaY zooms in.
func (m *Machine) Wheel(sx, sy, deltaY float64) {
	m.viewport.ZoomAt(sx, sy, math.Pow(2, -deltaY*wheelScale))
}
