package main

import (
	"github.com/aretw0/bazi/internal/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded readings",
	Long: `Lists the most recent readings from the configured history backend.
Only the redis backend persists across processes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")

		engine, cleanup, err := cli.NewEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.RunHistory(cmd.Context(), engine, limit, format, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of readings (0 for all)")
	historyCmd.Flags().StringP("format", "f", "table", "Output format: table, json or yaml")
}
