package view

import (
	"netmap/internal/domain"
	"netmap/internal/graph"
	"netmap/internal/interaction"
	"netmap/internal/style"
)

// Frame is a snapshot of everything a painter needs
type Frame struct {
	Seq      uint64     `json:"seq"`
	Scope    string     `json:"scope"`
	Dark     bool       `json:"dark"`
	Selected string     `json:"selected,omitempty"`
	Main     PaneFrame  `json:"main"`
	Sidebar  *PaneFrame `json:"sidebar,omitempty"`
	Hint     string     `json:"hint,omitempty"`
}

// PaneFrame is the render state of one pane
type PaneFrame struct {
	Pane      PaneID                `json:"pane"`
	Width     float64               `json:"width"`
	Height    float64               `json:"height"`
	Transform interaction.Transform `json:"transform"`
	Preset    string                `json:"preset,omitempty"`
	Alpha     float64               `json:"alpha"`
	Running   bool                  `json:"running"`
	Gesture   string                `json:"gesture"`
	Nodes     []NodeView            `json:"nodes"`
	Edges     []EdgeView            `json:"edges"`
}

// NodeView is one styled node in world coordinates
type NodeView struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Kind       domain.NodeKind `json:"kind"`
	Status     domain.Status   `json:"status"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Radius     float64         `json:"radius"`
	Color      string          `json:"color"`
	Class      string          `json:"class,omitempty"`
	Icon       *style.Icon     `json:"icon,omitempty"`
	IconFilter string          `json:"iconFilter,omitempty"`
	LabelBox   style.Box       `json:"labelBox"`
	LabelColor string          `json:"labelColor"`
	LabelFill  string          `json:"labelFill"`
	Pinned     bool            `json:"pinned,omitempty"`
	Selected   bool            `json:"selected,omitempty"`
}

// EdgeView is one edge with its endpoint coordinates
type EdgeView struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Snapshot returns the current render state without advancing anything
func (r *Renderer) Snapshot() Frame {
	dark := r.Dark()
	f := Frame{
		Seq:   r.seq,
		Scope: r.scope,
		Dark:  dark,
	}
	selectedID := ""
	if r.selected != nil {
		selectedID = r.selected.ID
		f.Selected = selectedID
	}

	f.Main = r.paneFrame(r.main, style.VariantMain, selectedID, dark)
	if r.sidebarOpen && !r.egoPending {
		sf := r.paneFrame(r.sidebar, style.VariantSidebar, selectedID, dark)
		f.Sidebar = &sf
	} else if !r.sidebarOpen {
		f.Hint = SidebarHint
	}
	return f
}

func (r *Renderer) paneFrame(p *pane, variant style.Variant, selectedID string, dark bool) PaneFrame {
	pf := PaneFrame{
		Pane:      p.id,
		Width:     p.width,
		Height:    p.height,
		Transform: p.viewport.Transform(),
		Gesture:   p.machine.State().String(),
		Nodes:     make([]NodeView, 0, p.graph.Len()),
		Edges:     make([]EdgeView, 0, len(p.graph.Edges)),
	}
	if p.sim != nil {
		pf.Preset = p.sim.Preset().Name
		pf.Alpha = p.sim.Alpha()
		pf.Running = p.sim.Running()
	}

	prefix := string(p.id)
	for _, n := range p.graph.Nodes {
		v := variant
		if variant == style.VariantSidebar && n.ID() == selectedID {
			v = style.VariantSidebarSelected
		}
		pf.Nodes = append(pf.Nodes, nodeView(n, v, prefix, dark, n.ID() == selectedID))
	}
	for _, e := range p.graph.Edges {
		src, tgt := p.graph.Nodes[e.From], p.graph.Nodes[e.To]
		pf.Edges = append(pf.Edges, EdgeView{
			Source: e.Source,
			Target: e.Target,
			X1:     src.X,
			Y1:     src.Y,
			X2:     tgt.X,
			Y2:     tgt.Y,
		})
	}
	return pf
}

func nodeView(n *graph.Node, variant style.Variant, prefix string, dark, selected bool) NodeView {
	radius := style.Radius(n.Kind)
	label := n.Label()
	nv := NodeView{
		ID:         n.ID(),
		Label:      label,
		Kind:       n.Kind,
		Status:     n.Device.Status,
		X:          n.X,
		Y:          n.Y,
		Radius:     radius,
		Color:      style.StatusColor(n.Device.Status, dark),
		Class:      style.NodeClass(n.Kind),
		LabelBox:   style.LabelBox(label, n.X, n.Y+style.LabelOffset(radius, variant), variant),
		LabelColor: style.LabelColor(dark),
		LabelFill:  style.LabelFill(dark),
		Pinned:     n.Pinned(),
		Selected:   selected,
	}
	if icon, ok := style.IconFor(n.Kind); ok {
		nv.Icon = &icon
		nv.IconFilter = style.IconFilterURL(prefix, n.Device.Status)
	}
	return nv
}
