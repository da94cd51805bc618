// Package style maps node kinds and statuses to visual attributes.
//
// Every function is total: unknown kinds and statuses fall back to defaults
// instead of failing.
package style

import (
	"fmt"

	"netmap/internal/domain"
)

// Radii by kind, in world units
const (
	RadiusCore    = 36
	RadiusGateway = 26
	RadiusSwitch  = 25
	RadiusDevice  = 16
	DefaultRadius = 28
)

// Radius returns the circle radius for a kind
func Radius(kind domain.NodeKind) float64 {
	switch kind {
	case domain.KindCore:
		return RadiusCore
	case domain.KindGateway:
		return RadiusGateway
	case domain.KindSwitch:
		return RadiusSwitch
	case domain.KindDevice:
		return RadiusDevice
	default:
		return DefaultRadius
	}
}

// Icon describes the glyph drawn inside a node
type Icon struct {
	Name    string  `json:"name"`
	Size    float64 `json:"size"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

var icons = map[domain.NodeKind]Icon{
	domain.KindGateway: {Name: "gateway", Size: 40},
	domain.KindSwitch:  {Name: "switch", Size: 30, OffsetX: 1},
	domain.KindDevice:  {Name: "device", Size: 20},
	domain.KindPrinter: {Name: "printer", Size: 20},
	domain.KindPhone:   {Name: "phone", Size: 20},
}

// IconFor returns the icon for a kind. Core and Other draw no icon.
func IconFor(kind domain.NodeKind) (Icon, bool) {
	icon, ok := icons[kind]
	return icon, ok
}

// Status colors
const (
	OnlineLight  = "#10b981"
	OnlineDark   = "#34d399"
	OfflineLight = "#ef4444"
	OfflineDark  = "#f87171"
)

// StatusColor returns the fill color for a status. Anything not online is offline.
func StatusColor(status domain.Status, dark bool) string {
	switch {
	case status.Online() && dark:
		return OnlineDark
	case status.Online():
		return OnlineLight
	case dark:
		return OfflineDark
	default:
		return OfflineLight
	}
}

// Label text colors
const (
	LabelTextLight = "#1f2937"
	LabelTextDark  = "#e5e7eb"
	LabelFillLight = "#ffffff"
	LabelFillDark  = "#111827"
)

// LabelColor returns the label text color for the theme
func LabelColor(dark bool) string {
	if dark {
		return LabelTextDark
	}
	return LabelTextLight
}

// LabelFill returns the label background color for the theme
func LabelFill(dark bool) string {
	if dark {
		return LabelFillDark
	}
	return LabelFillLight
}

// Color matrices tinting monochrome icons by status (feColorMatrix values)
const (
	FilterMatrixGreen = "0 0 0 0.063 0  0 0 0 0.725 0  0 0 0 0.506 0  0 0 0 1 0"
	FilterMatrixRed   = "0 0 0 0.937 0  0 0 0 0.267 0  0 0 0 0.267 0  0 0 0 1 0"
)

// IconFilterID returns the filter element ID for a status under a view prefix
func IconFilterID(prefix string, status domain.Status) string {
	suffix := "red"
	if status.Online() {
		suffix = "green"
	}
	return fmt.Sprintf("%s-icon-%s", prefix, suffix)
}

// IconFilterURL returns the filter reference for a status under a view prefix
func IconFilterURL(prefix string, status domain.Status) string {
	return fmt.Sprintf("url(#%s)", IconFilterID(prefix, status))
}

// ClassCore marks the core aggregation node
const ClassCore = "core-node"

// NodeClass returns the extra class name for a kind, or "" for none
func NodeClass(kind domain.NodeKind) string {
	if kind.IsCore() {
		return ClassCore
	}
	return ""
}
