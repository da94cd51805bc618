package graph

import "netmap/internal/domain"

// Pin fixes a node at a position chosen by the user
type Pin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one arena slot: a device copy plus its simulation state
type Node struct {
	Device domain.Device
	Kind   domain.NodeKind
	Index  int

	X, Y   float64
	VX, VY float64

	// Pin is non-nil while the user holds the node
	Pin *Pin

	placed bool
}

// ID returns the device ID
func (n *Node) ID() string {
	return n.Device.ID
}

// Label returns the display label, falling back to the ID
func (n *Node) Label() string {
	if n.Device.Name != "" {
		return n.Device.Name
	}
	return n.Device.ID
}

// Placed reports whether the node has been given a position
func (n *Node) Placed() bool {
	return n.placed
}

// Place sets the position and marks the node as placed
func (n *Node) Place(x, y float64) {
	n.X, n.Y = x, y
	n.placed = true
}

// Pinned reports whether the node is currently pinned
func (n *Node) Pinned() bool {
	return n.Pin != nil
}

// PinAt pins the node at a position
func (n *Node) PinAt(x, y float64) {
	n.Pin = &Pin{X: x, Y: y}
	n.placed = true
}

// Unpin releases the pin and leaves the node where it was held
func (n *Node) Unpin() {
	if n.Pin == nil {
		return
	}
	n.X, n.Y = n.Pin.X, n.Pin.Y
	n.VX, n.VY = 0, 0
	n.Pin = nil
}
