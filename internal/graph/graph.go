package graph

import (
	"math"
	"sort"

	"netmap/internal/domain"
)

// Graph is an arena of nodes plus their deduplicated edges
type Graph struct {
	Nodes []*Node
	Edges []Edge

	index  map[string]int
	degree []int
}

// Build creates a graph from devices. Devices carrying any of excludeTags are
// dropped, as are edges whose endpoints did not survive. Each node holds its
// own copy of the device.
func Build(devices []domain.Device, excludeTags ...string) *Graph {
	g := &Graph{
		Nodes: make([]*Node, 0, len(devices)),
		index: make(map[string]int, len(devices)),
	}

	for _, dev := range devices {
		if dev.ID == "" || dev.HasAnyTag(excludeTags...) {
			continue
		}
		if _, dup := g.index[dev.ID]; dup {
			continue
		}
		node := &Node{
			Device: dev.Clone(),
			Kind:   dev.Kind(),
			Index:  len(g.Nodes),
		}
		g.index[dev.ID] = node.Index
		g.Nodes = append(g.Nodes, node)
	}

	g.degree = make([]int, len(g.Nodes))
	seen := make(map[edgeKey]bool)
	for _, node := range g.Nodes {
		for _, target := range node.Device.ConnectedTo {
			to, ok := g.index[target]
			if !ok || target == node.ID() {
				continue
			}
			key := newEdgeKey(node.ID(), target)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.Edges = append(g.Edges, Edge{
				Source: node.ID(),
				Target: target,
				From:   node.Index,
				To:     to,
			})
			g.degree[node.Index]++
			g.degree[to]++
		}
	}

	return g
}

// Ego builds the focus device plus its direct neighbors in source as a fresh
// graph. Edges among the neighbors are kept. A focus unknown to source yields
// a single-node graph.
func Ego(focus domain.Device, source *Graph) *Graph {
	devices := []domain.Device{focus}
	if source != nil {
		for _, id := range source.Neighbors(focus.ID) {
			if n, ok := source.Node(id); ok {
				devices = append(devices, n.Device)
			}
		}
		// Adjacency declared only by a neighbor still has to reach the focus.
		devices[0] = withNeighbors(focus, source.Neighbors(focus.ID))
	}
	return Build(devices)
}

func withNeighbors(dev domain.Device, neighbors []string) domain.Device {
	dev = dev.Clone()
	known := make(map[string]bool, len(dev.ConnectedTo))
	for _, id := range dev.ConnectedTo {
		known[id] = true
	}
	for _, id := range neighbors {
		if !known[id] {
			dev.ConnectedTo = append(dev.ConnectedTo, id)
		}
	}
	return dev
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Node looks up a node by device ID
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.Nodes[i], true
}

// Degree returns the number of edges touching the node at index i
func (g *Graph) Degree(i int) int {
	if i < 0 || i >= len(g.degree) {
		return 0
	}
	return g.degree[i]
}

// Neighbors returns the sorted IDs of nodes sharing an edge with id
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Involves(id) {
			out = append(out, e.OtherEnd(id))
		}
	}
	sort.Strings(out)
	return out
}

// Bounds returns the bounding box of every placed node
func (g *Graph) Bounds() Rect {
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	found := false
	for _, n := range g.Nodes {
		if !n.placed {
			continue
		}
		found = true
		r.MinX = math.Min(r.MinX, n.X)
		r.MinY = math.Min(r.MinY, n.Y)
		r.MaxX = math.Max(r.MaxX, n.X)
		r.MaxY = math.Max(r.MaxY, n.Y)
	}
	if !found {
		return Rect{}
	}
	return r
}
