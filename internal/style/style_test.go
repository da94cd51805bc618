package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netmap/internal/domain"
)

func TestRadiusByTagPriority(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want float64
	}{
		{"core beats device", []string{domain.TagDevice, domain.TagCore}, 36},
		{"gateway beats switch", []string{domain.TagSwitch, domain.TagGateway}, 26},
		{"switch", []string{domain.TagSwitch}, 25},
		{"device", []string{domain.TagDevice}, 16},
		{"printer uses default", []string{domain.TagPrinter}, 28},
		{"untagged uses default", nil, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Radius(domain.Classify(tt.tags)))
		})
	}
}

func TestIconFor(t *testing.T) {
	icon, ok := IconFor(domain.KindSwitch)
	assert.True(t, ok)
	assert.Equal(t, Icon{Name: "switch", Size: 30, OffsetX: 1}, icon)

	icon, ok = IconFor(domain.KindGateway)
	assert.True(t, ok)
	assert.Equal(t, 40.0, icon.Size)

	icon, ok = IconFor(domain.KindPhone)
	assert.True(t, ok)
	assert.Equal(t, 20.0, icon.Size)

	_, ok = IconFor(domain.KindCore)
	assert.False(t, ok)
	_, ok = IconFor(domain.KindOther)
	assert.False(t, ok)
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status domain.Status
		dark   bool
		want   string
	}{
		{domain.StatusOnline, false, "#10b981"},
		{domain.StatusOnline, true, "#34d399"},
		{domain.StatusOffline, false, "#ef4444"},
		{domain.StatusOffline, true, "#f87171"},
		{"rebooting", false, "#ef4444"},
		{"", true, "#f87171"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusColor(tt.status, tt.dark), "status %q dark %v", tt.status, tt.dark)
	}
}

func TestIconFilterURL(t *testing.T) {
	assert.Equal(t, "url(#main-icon-green)", IconFilterURL("main", domain.StatusOnline))
	assert.Equal(t, "url(#sidebar-icon-red)", IconFilterURL("sidebar", domain.StatusOffline))
	assert.Equal(t, "url(#main-icon-red)", IconFilterURL("main", "unknown"))
}

func TestNodeClass(t *testing.T) {
	assert.Equal(t, "core-node", NodeClass(domain.KindCore))
	assert.Empty(t, NodeClass(domain.KindSwitch))
}

func TestLabelBox(t *testing.T) {
	t.Run("main variant", func(t *testing.T) {
		box := LabelBox("abcd", 100, 50, VariantMain)
		// 4 cells * 10px * 0.6 + 4 padding
		assert.InDelta(t, 28.0, box.Width, 1e-9)
		assert.Equal(t, 12.0, box.Height)
		assert.Equal(t, 44.0, box.Y)
		assert.InDelta(t, 86.0, box.X, 1e-9)
		assert.Equal(t, 10.0, box.FontSize)
	})

	t.Run("sidebar variant", func(t *testing.T) {
		box := LabelBox("abcd", 0, 0, VariantSidebar)
		assert.Equal(t, 16.0, box.Height)
		assert.Equal(t, -8.0, box.Y)
	})

	t.Run("selected uses larger type", func(t *testing.T) {
		plain := LabelBox("abcd", 0, 0, VariantSidebar)
		selected := LabelBox("abcd", 0, 0, VariantSidebarSelected)
		assert.Greater(t, selected.Width, plain.Width)
		assert.Equal(t, 12.0, selected.FontSize)
	})

	t.Run("wide runes take two cells", func(t *testing.T) {
		narrow := TextWidth("ab", VariantMain)
		wide := TextWidth("日本", VariantMain)
		assert.InDelta(t, narrow*2, wide, 1e-9)
	})

	t.Run("empty text keeps padding", func(t *testing.T) {
		assert.Equal(t, float64(LabelWidthPadding), LabelBox("", 0, 0, VariantMain).Width)
	})
}

func TestLabelOffset(t *testing.T) {
	assert.Equal(t, 16.0+4+6, LabelOffset(16, VariantMain))
	assert.Equal(t, 25.0+4+8, LabelOffset(25, VariantSidebar))
}
