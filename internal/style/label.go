package style

import "github.com/mattn/go-runewidth"

// Variant selects the label geometry for a view
type Variant int

const (
	VariantMain Variant = iota
	VariantSidebar
	VariantSidebarSelected
)

// Label geometry
const (
	LabelGap          = 4
	LabelPadding      = 2
	LabelWidthPadding = 4

	labelHeight        = 12
	labelHeightSidebar = 16
	labelOffsetY       = -6
	labelOffsetSidebar = -8

	FontSize         = 10
	FontSizeSelected = 12

	// average advance of one display cell relative to the font size
	cellAdvance = 0.6
)

// Box is a label background rectangle relative to its anchor
type Box struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"fontSize"`
}

func (v Variant) height() float64 {
	if v == VariantMain {
		return labelHeight
	}
	return labelHeightSidebar
}

func (v Variant) offsetY() float64 {
	if v == VariantMain {
		return labelOffsetY
	}
	return labelOffsetSidebar
}

func (v Variant) fontSize() float64 {
	if v == VariantSidebarSelected {
		return FontSizeSelected
	}
	return FontSize
}

// TextWidth measures text in world units for the variant's font size
func TextWidth(text string, v Variant) float64 {
	return float64(runewidth.StringWidth(text)) * v.fontSize() * cellAdvance
}

// LabelBox returns the background rectangle for text centered on anchorX with
// its vertical midline at anchorY.
func LabelBox(text string, anchorX, anchorY float64, v Variant) Box {
	width := TextWidth(text, v) + LabelWidthPadding
	return Box{
		X:        anchorX - width/2,
		Y:        anchorY + v.offsetY(),
		Width:    width,
		Height:   v.height(),
		FontSize: v.fontSize(),
	}
}

// LabelOffset returns how far below the node center the label midline sits
func LabelOffset(radius float64, v Variant) float64 {
	return radius + LabelGap + v.height()/2
}
