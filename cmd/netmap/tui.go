package main

import (
	"context"

	"github.com/spf13/cobra"

	"netmap/internal/config"
	"netmap/internal/logger"
	"netmap/internal/service"
	"netmap/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the map and the device table in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func (a *app) runTUI(ctx context.Context) error {
	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	renderOpts, err := service.RendererOptions(a.cfg)
	if err != nil {
		return err
	}
	renderOpts.Logger = logger.WithComponent("view")

	mgr := service.NewManager(catalog, nil, service.Options{
		Renderer:      renderOpts,
		FrameInterval: a.cfg.Render.FrameInterval.Duration(),
		Logger:        logger.WithComponent("service"),
	})
	defer mgr.Shutdown(context.Background())

	s, err := mgr.Open()
	if err != nil {
		return err
	}

	log := logger.WithComponent("tui")
	return tui.Run(ctx, s, tui.Options{
		Dark: a.cfg.Theme.Dark,
		OnTheme: func(dark bool) error {
			a.cfg.Theme.Dark = dark
			path := config.WritablePath(a.cfgPath)
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			log.Info().Str("path", path).Bool("dark", dark).Msg("Theme saved")
			return nil
		},
		Logger: log,
	})
}
