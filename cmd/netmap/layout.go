package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"netmap/internal/domain"
	"netmap/internal/service"
	"netmap/internal/view"
)

// maxSettleSteps bounds a headless settle; presets cool well before this
const maxSettleSteps = 2000

// nodePosition is one settled node in world coordinates
type nodePosition struct {
	ID     string          `json:"id"`
	Kind   domain.NodeKind `json:"kind"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Pinned bool            `json:"pinned,omitempty"`
}

type layoutResult struct {
	Scope   string         `json:"scope"`
	Preset  string         `json:"preset"`
	Main    []nodePosition `json:"main"`
	Focus   string         `json:"focus,omitempty"`
	Sidebar []nodePosition `json:"sidebar,omitempty"`
}

func newLayoutCmd(a *app) *cobra.Command {
	var (
		steps  int
		focus  string
		width  float64
		height float64
	)
	cmd := &cobra.Command{
		Use:   "layout [scope]",
		Short: "Settle a scope headlessly and print node positions as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := domain.ScopeAll
			if len(args) == 1 {
				scope = args[0]
			}

			catalog, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			opts, err := service.RendererOptions(a.cfg)
			if err != nil {
				return err
			}
			opts.MainWidth, opts.MainHeight = width, height

			r, err := view.New(catalog, opts)
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.SetScope(scope); err != nil {
				return err
			}
			if focus != "" {
				if err := r.Select(focus); err != nil {
					return err
				}
			}
			r.Settle(steps)

			f := r.Snapshot()
			res := layoutResult{Scope: f.Scope, Preset: f.Main.Preset, Main: positions(f.Main)}
			if f.Sidebar != nil {
				res.Focus = f.Selected
				res.Sidebar = positions(*f.Sidebar)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", maxSettleSteps, "maximum simulation steps")
	cmd.Flags().StringVar(&focus, "select", "", "also settle the sidebar around this device")
	cmd.Flags().Float64Var(&width, "width", 1200, "main pane width in pixels")
	cmd.Flags().Float64Var(&height, "height", 800, "main pane height in pixels")
	return cmd
}

func positions(p view.PaneFrame) []nodePosition {
	out := make([]nodePosition, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		out = append(out, nodePosition{ID: n.ID, Kind: n.Kind, X: n.X, Y: n.Y, Pinned: n.Pinned})
	}
	return out
}
