package service

import (
	"netmap/internal/config"
	"netmap/internal/interaction"
	"netmap/internal/view"
)

// RendererOptions maps the configuration onto renderer options
func RendererOptions(cfg *config.Config) (view.Options, error) {
	presets, err := cfg.EffectivePresets()
	if err != nil {
		return view.Options{}, err
	}
	opts := view.DefaultOptions()
	opts.Theme = view.StaticTheme(cfg.Theme.Dark)
	opts.Interaction = interaction.Config{
		DragThreshold:   cfg.Interaction.DragThreshold,
		DragAlphaTarget: interaction.DefaultDragAlphaTarget,
	}
	opts.FitPadding = cfg.Interaction.FitPadding
	opts.MainZoom = view.ZoomRange{Min: cfg.Interaction.MainZoom.Min, Max: cfg.Interaction.MainZoom.Max}
	opts.SidebarZoom = view.ZoomRange{Min: cfg.Interaction.SidebarZoom.Min, Max: cfg.Interaction.SidebarZoom.Max}
	opts.Presets = presets
	return opts, nil
}
