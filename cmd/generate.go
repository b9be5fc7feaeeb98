package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citeworks/ghcite/internal/citation"
	"github.com/citeworks/ghcite/internal/datacite"
	"github.com/citeworks/ghcite/internal/github"
)

var (
	generateToken  string
	generateAPIURL string
	generateWebURL string
)

var generateCmd = &cobra.Command{
	Use:   "generate <owner> <repository>",
	Short: "Generate a DataCite XML document for a repository",
	Long: `Generate fetches a repository's metadata, contributors, branches and
releases from GitHub and writes a DataCite Kernel-4 XML document to
standard output.

Examples:
  ghcite generate octocat Hello-World
  ghcite generate octocat Hello-World -t $GITHUB_TOKEN
  ghcite generate myorg myfork --api-url https://ghe.example/api/v3`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateToken, "token", "t", "", "GitHub API token")
	generateCmd.Flags().StringVar(&generateAPIURL, "api-url", "", "GitHub API base URL")
	generateCmd.Flags().StringVar(&generateWebURL, "github-url", "", "GitHub web base URL")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	cfg := github.Config{
		APIURL: settings.APIURL,
		WebURL: settings.WebURL,
		Token:  settings.Token,
	}
	if generateAPIURL != "" {
		cfg.APIURL = generateAPIURL
	}
	if generateWebURL != "" {
		cfg.WebURL = generateWebURL
	}
	if generateToken != "" {
		cfg.Token = generateToken
	}

	doc, err := buildDocument(cmd.Context(), cfg, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Print(doc)
	return nil
}

// buildDocument runs one full citation generation: fresh client, record
// build, XML rendering. All-or-nothing; any upstream failure aborts.
func buildDocument(ctx context.Context, cfg github.Config, owner, name string) (string, error) {
	client, err := github.NewClient(cfg, owner, name)
	if err != nil {
		return "", err
	}
	record, err := citation.Build(ctx, client)
	if err != nil {
		return "", err
	}
	return datacite.Render(record)
}
