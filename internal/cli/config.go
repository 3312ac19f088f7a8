package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/offsetlab/carbonkit/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the resolved configuration.

Settings come from the config file, overridden by CARBONKIT_* environment
variables. The auth token is never printed.

Examples:
  carbonkit config`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	return executeConfig(os.Stdout)
}

func executeConfig(w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		path += " (not present, using defaults)"
	}

	url, err := cfg.Database.ResolveDatabaseURL()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config file:          %s\n", path)
	fmt.Fprintf(w, "Database URL:         %s\n", url)
	fmt.Fprintf(w, "Auth token:           %s\n", maskToken(cfg.Database.AuthToken))
	fmt.Fprintf(w, "Bootstrap iterations: %d\n", cfg.Bootstrap.Iterations)
	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "(none)"
	}
	return "(set)"
}
