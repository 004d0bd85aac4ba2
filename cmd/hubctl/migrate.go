package main

import (
	"hubplus/internal/app"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.RunMigrations(cfg.PG.DSN); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}
