package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"netmap/internal/codec"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current fixture as json, yaml or toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.Lookup(format)
			if err != nil {
				return err
			}
			catalog, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := c.Export(catalog, w); err != nil {
				return fmt.Errorf("export %s: %w", c.Format(), err)
			}
			if out != "" {
				good.Fprintf(os.Stderr, "Wrote %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or toml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
