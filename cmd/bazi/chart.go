package main

import (
	"os"

	"github.com/aretw0/bazi/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chartCmd = &cobra.Command{
	Use:   "chart [birth]",
	Short: "Compute a reading for a birth identifier",
	Long: `Computes the Four Pillars reading for the given birth text.

With --pillars the given chart is analyzed directly (e.g. pillars from an almanac)
and the optional argument becomes the echoed input label.
Without arguments, births are read from stdin one per line.`,
	Example: `  bazi chart "1990-05-15 08:30"
  bazi chart "1990-05-15 08:30" --format markdown
  bazi chart --pillars 庚午,丙子,癸未,乙丑
  cat births.txt | bazi chart --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		pillars, _ := cmd.Flags().GetString("pillars")
		plain, _ := cmd.Flags().GetBool("plain")

		opts := cli.ChartOptions{
			Pillars:     pillars,
			Format:      format,
			Plain:       plain || !term.IsTerminal(int(os.Stdout.Fd())),
			Interactive: term.IsTerminal(int(os.Stdin.Fd())),
			Output:      cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.Birth = args[0]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		opts.Input = cli.NewInterruptibleReader(os.Stdin, ctx.Done())

		engine, cleanup, err := cli.NewEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.HandleExecutionError(cli.RunChart(ctx, engine, opts))
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml or markdown")
	chartCmd.Flags().String("pillars", "", "Analyze explicit pillars: year,month,day,hour")
	chartCmd.Flags().Bool("plain", false, "Disable terminal styling for markdown output")
}
