package main

import (
	"github.com/aretw0/bazi/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the BaZi engine in server mode, exposing a JSON API over HTTP.
Prometheus metrics are served on /metrics and the API document on /swagger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("history") {
			cfg.History.Backend, _ = cmd.Flags().GetString("history")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Channel to listen for interrupt or terminate signals.
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if err := cli.RunServe(ctx, cfg, logger); err != nil {
			return err
		}
		cli.LogShutdown(logger, ctx, "HTTP server")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("history", "none", "Reading history backend: none, memory or redis")
}
