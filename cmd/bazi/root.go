package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/bazi/internal/cli"
	"github.com/aretw0/bazi/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bazi",
	Short: "BaZi computes deterministic Four Pillars charts",
	Long: `BaZi derives a Four Pillars chart from a digest of the birth text and analyzes
its elements, ten gods, hidden stems and Day Master strength.

The chart is a reproducible digest of the text, not a calendar conversion.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")

		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = cli.CreateLogger(cfg.Log, debug)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", os.Getenv("BAZI_CONFIG"), "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
