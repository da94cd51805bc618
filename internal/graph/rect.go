package graph

// Rect is an axis-aligned box in world coordinates
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width of the box
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height of the box
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Center of the box
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Degenerate reports whether the box has no area
func (r Rect) Degenerate() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Expand grows the box by pad on every side
func (r Rect) Expand(pad float64) Rect {
	return Rect{MinX: r.MinX - pad, MinY: r.MinY - pad, MaxX: r.MaxX + pad, MaxY: r.MaxY + pad}
}
