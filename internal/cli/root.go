package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carbonkit",
	Short: "Carbon sequestration analysis toolkit",
	Long: `carbonkit is a toolkit for analyzing the durability of carbon removal.

Fit biochar decay models from incubation data, predict conservative
half-lives, project mass decay curves, and compute ton-year accounting
benefits for temporary carbon storage.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
