package graph

// Edge connects two nodes of the same graph
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`

	// From and To index the graph's node arena
	From int `json:"-"`
	To   int `json:"-"`
}

// edgeKey identifies an edge regardless of direction
type edgeKey struct {
	a, b string
}

func newEdgeKey(source, target string) edgeKey {
	if source > target {
		source, target = target, source
	}
	return edgeKey{a: source, b: target}
}

// Involves checks if this edge touches the given node ID
func (e Edge) Involves(id string) bool {
	return e.Source == id || e.Target == id
}

// OtherEnd returns the node ID on the other end of this edge
func (e Edge) OtherEnd(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}
