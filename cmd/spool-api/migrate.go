package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/pkg/config"
	"github.com/noah-isme/spool-tracker/pkg/database"
	"github.com/noah-isme/spool-tracker/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logr.Sync() //nolint:errcheck

		db, err := database.NewPostgres(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		migrations, err := database.Migrations()
		if err != nil {
			return err
		}
		applied, err := database.Migrate(cmd.Context(), db, migrations, logr)
		if err != nil {
			return err
		}
		logr.Info("migrations complete", zap.Strings("applied", applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
