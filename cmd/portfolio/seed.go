package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio.dev/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Replace the database content with a YAML dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("db", "", "SQLite database path (overrides store.path)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	dbPath := cfg.Store.Path
	if cmd.Flags().Changed("db") {
		dbPath, _ = cmd.Flags().GetString("db")
	}

	ds, err := store.LoadDataset(args[0])
	if err != nil {
		return err
	}

	db, err := store.OpenSQLite(dbPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Replace(cmd.Context(), ds); err != nil {
		return err
	}

	logger.Info("Database seeded",
		zap.String("db", db.Path()),
		zap.String("seed", args[0]),
		zap.Int("projects", len(ds.Projects)),
		zap.Int("experiences", len(ds.Experiences)))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d projects into %s\n", len(ds.Projects), db.Path())
	return nil
}
