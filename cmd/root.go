package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/citeworks/ghcite/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ghcite",
	Short: "ghcite - DataCite citations for GitHub repositories",
	Long: `ghcite queries GitHub for a repository's metadata and emits a DataCite
Kernel-4 XML citation document.

For forks it also resolves lineage: the most recent commit shared with the
parent repository and the parent release that commit first shipped in,
expressed as IsDerivedFrom related identifiers.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a ghcite YAML config file")
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings resolves the config file and environment into settings the
// commands layer their flags on top of.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}
