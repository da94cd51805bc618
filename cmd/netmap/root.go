package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"netmap/internal/config"
	"netmap/internal/domain"
	"netmap/internal/loader"
	"netmap/internal/logger"
	"netmap/internal/repository/sqlite"
)

var version = "0.3.0"

// app carries the loaded config between cobra commands
type app struct {
	cfg     *config.Config
	cfgPath string
	closer  io.Closer
	log     zerolog.Logger

	configFlag string
	fixture    string
	database   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "netmap",
		Short:         "netmap: an interactive map of the office network",
		Long:          brand.Sprint("netmap") + " lays out network devices per floor and lets you explore them\n" + subtle.Sprint("Serve the map over HTTP or browse it in the terminal"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closer != nil {
				a.closer.Close()
			}
		},
	}
	root.SetVersionTemplate("netmap {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFlag, "config", "", "config file (default: search "+config.ConfigFileName+" locations)")
	flags.StringVar(&a.fixture, "fixture", "", "fixture file (json, yaml or toml)")
	flags.StringVar(&a.database, "db", "", "SQLite fixture database; wins over --fixture")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override")

	root.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newLayoutCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configFlag != "" {
		a.cfg, a.cfgPath, err = config.LoadFromPath(a.configFlag)
	} else {
		a.cfg, a.cfgPath, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.fixture != "" {
		a.cfg.Fixtures.Path = a.fixture
		a.cfg.Fixtures.Database = ""
	}
	if a.database != "" {
		a.cfg.Fixtures.Database = a.database
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}

	logCfg := a.cfg.Logging
	// the terminal UI owns the screen; console logs would draw over it
	if cmd.Name() == "tui" && (logCfg.Output == "stderr" || logCfg.Output == "stdout") {
		logCfg.Output = "discard"
	}
	a.closer, err = logger.Init(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = logger.WithComponent("cli")
	a.log.Debug().Str("config", a.cfgPath).Msg(a.cfg.Summary())
	return nil
}

// loadCatalog reads the fixture from the database when one is configured,
// otherwise from the fixture file
func (a *app) loadCatalog(ctx context.Context) (*domain.Catalog, error) {
	if db := a.cfg.Fixtures.Database; db != "" {
		repo, err := sqlite.New(db)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		defer repo.Close()

		catalog, err := repo.LoadCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog from %s: %w", db, err)
		}
		if err := loader.Validate(catalog); err != nil {
			return nil, err
		}
		a.log.Info().Str("database", db).Int("datasets", len(catalog.Datasets)).Msg("Catalog loaded")
		return catalog, nil
	}

	catalog, err := loader.Load(a.cfg.Fixtures.Path)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("path", a.cfg.Fixtures.Path).Int("datasets", len(catalog.Datasets)).Msg("Catalog loaded")
	return catalog, nil
}
