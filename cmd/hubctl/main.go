// Command hubctl runs migrations, the campaign worker and admin tasks.
package main

import (
	"fmt"
	"os"

	"hubplus/internal/config"
	"hubplus/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool

	cfg config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "hubctl",
	Short:         "HubPlus operations CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["offline"] == "true" {
			log = zap.NewNop()
			return nil
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		level := cfg.App.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(cfg.App.Env, level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(migrateCmd, workerCmd, seedCmd, genhashCmd, createAdminCmd, promoteCmd, jobCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
