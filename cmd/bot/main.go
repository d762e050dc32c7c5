package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Lithium is a Discord bot for managing support tickets.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(viper.New(), configFile)
		if err != nil {
			return err
		}

		a, cleanup, err := InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("error initializing application: %w", err)
		}
		defer cleanup()

		a.Info("Starting application")
		if err := a.Run(cmd.Context()); err != nil {
			a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a config file (yaml, json or toml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
