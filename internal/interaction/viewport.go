package interaction

import (
	"math"

	"netmap/internal/graph"
)

// Transform maps world coordinates to screen coordinates: screen = world*K + (X, Y)
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the untransformed view
var Identity = Transform{K: 1}

// Apply maps a world point to the screen
func (t Transform) Apply(wx, wy float64) (float64, float64) {
	return wx*t.K + t.X, wy*t.K + t.Y
}

// Invert maps a screen point to the world
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.X) / t.K, (sy - t.Y) / t.K
}

// Viewport holds a pane's transform and its scale bounds
type Viewport struct {
	transform Transform
	minScale  float64
	maxScale  float64
}

// NewViewport creates an identity viewport with scale bounds
func NewViewport(minScale, maxScale float64) *Viewport {
	if minScale <= 0 {
		minScale = 1
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	v := &Viewport{transform: Identity, minScale: minScale, maxScale: maxScale}
	v.Reset()
	return v
}

// Transform returns the current transform
func (v *Viewport) Transform() Transform {
	return v.transform
}

// ScaleBounds returns the minimum and maximum scale
func (v *Viewport) ScaleBounds() (float64, float64) {
	return v.minScale, v.maxScale
}

// SetTransform replaces the transform, clamping its scale
func (v *Viewport) SetTransform(t Transform) {
	t.K = v.clamp(t.K)
	v.transform = t
}

// Reset returns to the identity transform
func (v *Viewport) Reset() {
	v.SetTransform(Identity)
}

// Pan translates the view by a screen delta
func (v *Viewport) Pan(dx, dy float64) {
	v.transform.X += dx
	v.transform.Y += dy
}

// ZoomAt scales by factor keeping the world point under (sx, sy) fixed
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	wx, wy := v.transform.Invert(sx, sy)
	k := v.clamp(v.transform.K * factor)
	v.transform = Transform{X: sx - wx*k, Y: sy - wy*k, K: k}
}

// Fit frames bounds, grown by padding, in a width x height pane. Degenerate
// bounds leave the transform unchanged and return false.
func (v *Viewport) Fit(bounds graph.Rect, width, height, padding float64) bool {
	if bounds.Degenerate() || width <= 0 || height <= 0 {
		return false
	}
	box := bounds.Expand(padding)
	k := v.clamp(math.Min(width/box.Width(), height/box.Height()))
	cx, cy := box.Center()
	v.transform = Transform{X: width/2 - cx*k, Y: height/2 - cy*k, K: k}
	return true
}

func (v *Viewport) clamp(k float64) float64 {
	if k <= 0 || math.IsNaN(k) {
		return v.transform.K
	}
	return math.Max(v.minScale, math.Min(v.maxScale, k))
}
