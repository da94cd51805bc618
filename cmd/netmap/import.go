package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"netmap/internal/loader"
	"netmap/internal/repository/sqlite"
)

const defaultDatabase = "./netmap.db"

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a fixture file into the SQLite store",
		Long:  "Import replaces every stored dataset with the datasets of the file.\nThe target is --db, the configured database, or " + defaultDatabase + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			db := a.cfg.Fixtures.Database
			if db == "" {
				db = defaultDatabase
			}
			repo, err := sqlite.New(db)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer repo.Close()

			ctx := cmd.Context()
			if err := repo.ImportCatalog(ctx, catalog); err != nil {
				return err
			}
			infos, err := repo.ListDatasets(ctx)
			if err != nil {
				return err
			}

			good.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n\n", args[0], db)
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{info.Name, info.Title, strconv.Itoa(info.Devices)})
			}
			printTable(cmd.OutOrStdout(), []string{"DATASET", "TITLE", "DEVICES"}, rows)
			a.log.Info().Str("database", db).Int("datasets", len(infos)).Msg("Catalog imported")
			return nil
		},
	}
}
