package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"netmap/internal/config"
	"netmap/internal/handler"
	"netmap/internal/logger"
	"netmap/internal/metrics"
	"netmap/internal/service"
	"netmap/internal/watcher"
)

// liveTheme follows the config file's theme for sessions that never set one
type liveTheme struct {
	dark atomic.Bool
}

func (t *liveTheme) Dark() bool {
	return t.dark.Load()
}

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sessions over HTTP, SSE and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context(), watch)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the theme when the config file changes")
	return cmd
}

func (a *app) serve(ctx context.Context, watch bool) error {
	log := logger.WithComponent("server")

	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	renderOpts, err := service.RendererOptions(a.cfg)
	if err != nil {
		return err
	}
	theme := &liveTheme{}
	theme.dark.Store(a.cfg.Theme.Dark)
	renderOpts.Theme = theme
	renderOpts.Logger = logger.WithComponent("view")

	reg := metrics.NewRegistry()
	bus := service.NewEventBus()
	events := make(chan service.Event, 100)
	bus.Subscribe(events)
	go logEvents(events, logger.WithComponent("events"))

	mgr := service.NewManager(catalog, bus, service.Options{
		Renderer:      renderOpts,
		FrameInterval: a.cfg.Render.FrameInterval.Duration(),
		MaxSessions:   a.cfg.Server.MaxSessions,
		Metrics:       reg,
		Logger:        logger.WithComponent("service"),
	})

	sessions := handler.NewSessionHandler(mgr, a.cfg.Server.AllowedOrigins, logger.WithComponent("handler"))
	mux := http.NewServeMux()
	sessions.Register(mux)
	mux.Handle("GET /metrics", reg.Handler())

	finalHandler := handler.Chain(mux,
		handler.Recover(log),
		handler.CORS(a.cfg.Server.AllowedOrigins),
		handler.Logger(logger.WithComponent("http"), reg),
	)

	// no write timeout: event streams stay open for the life of a session
	server := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           finalHandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch && a.cfgPath != "" {
		w := watcher.New(a.cfgPath, func() { a.reloadTheme(theme, mgr, log) }, logger.WithComponent("watcher"))
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("Config watcher stopped")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Int("datasets", len(catalog.Datasets)).Msg("Server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	if err := mgr.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Session shutdown error")
	}
	log.Info().Msg("Server stopped")
	return nil
}

// reloadTheme rereads the config file and pushes its theme to every session
func (a *app) reloadTheme(theme *liveTheme, mgr *service.Manager, log zerolog.Logger) {
	cfg, _, err := config.LoadFromPath(a.cfgPath)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid config change")
		return
	}
	if theme.dark.Swap(cfg.Theme.Dark) == cfg.Theme.Dark {
		return
	}
	for _, id := range mgr.List() {
		if s, err := mgr.Get(id); err == nil {
			s.SetDark(cfg.Theme.Dark)
		}
	}
	log.Info().Bool("dark", cfg.Theme.Dark).Int("sessions", len(mgr.List())).Msg("Theme reloaded")
}

func logEvents(events <-chan service.Event, log zerolog.Logger) {
	for ev := range events {
		log.Debug().Str("type", string(ev.Type)).Str("session_id", ev.SessionID).Msg("Session event")
	}
}
