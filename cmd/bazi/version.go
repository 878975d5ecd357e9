package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bazi",
	Run: func(cmd *cobra.Command, args []string) {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bazi version %s\n", strings.TrimSpace(bazi.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
