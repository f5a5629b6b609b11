package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/config"
	"github.com/cobbinma/portfolio/internal/content"
	"github.com/cobbinma/portfolio/internal/source"
)

func seedCmd(a *app) *cobra.Command {
	var (
		file  string
		prune bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture into the sqlite store",
		Long: `Seed reads entries and assets from a YAML fixture and upserts them into
the sqlite database at db_path. Run the server with source: sqlite to serve them.

With --prune, records in the database that the fixture no longer contains are
deleted, so the store mirrors the fixture.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DBPath == "" {
				return config.ErrMissingDBPath
			}

			fixture, err := content.LoadFixtureFile(file)
			if err != nil {
				return err
			}

			db, err := source.OpenStore(a.cfg.DBPath)
			if err != nil {
				return err
			}

			res, err := content.Seed(cmd.Context(), db, fixture, content.SeedOptions{Prune: prune})
			if cerr := db.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
			if err != nil {
				return err
			}

			a.logger.Info("seeded content",
				slog.Int("records", res.Stored),
				slog.Int("pruned", res.Pruned),
				slog.String("db", a.cfg.DBPath),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records into %s\n", res.Stored, a.cfg.DBPath)
			if prune {
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d stale records\n", res.Pruned)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file to load")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete stored records the fixture does not contain")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
