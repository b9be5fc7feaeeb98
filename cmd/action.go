package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citeworks/ghcite/internal/action"
	"github.com/citeworks/ghcite/internal/github"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run as a GitHub Action step",
	Long: `Action reads its parameters from the environment (INPUT_REPOOWNER,
INPUT_REPONAME, INPUT_APITOKEN, INPUT_GITHUBURL, INPUT_GITHUBAPIURL),
writes the DataCite XML document to standard output and publishes it as
the 'datacitexml' output value.`,
	Args: cobra.NoArgs,
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(actionCmd)
}

func runAction(cmd *cobra.Command, args []string) error {
	params, err := action.ParamsFromEnv()
	if err != nil {
		return err
	}

	cfg := github.Config{
		APIURL: params.APIURL,
		WebURL: params.WebURL,
		Token:  params.Token,
	}

	doc, err := buildDocument(cmd.Context(), cfg, params.Owner, params.Name)
	if err != nil {
		return err
	}

	fmt.Print(doc)
	return action.PublishOutput("datacitexml", doc)
}
