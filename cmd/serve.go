package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citeworks/ghcite/internal/github"
	"github.com/citeworks/ghcite/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve citation generation over HTTP",
	Long: `Serve starts an HTTP server with a single endpoint:

  POST /generate  {"owner": "...", "project": "...", "apiToken": "..."}

On success it responds 201 with the DataCite XML document; upstream
failures are reported with the upstream status code and message.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	port := settings.Port
	if servePort != 0 {
		port = servePort
	}

	base := github.Config{
		APIURL: settings.APIURL,
		WebURL: settings.WebURL,
		Token:  settings.Token,
	}

	srv := server.New(func(ctx context.Context, owner, project, token string) (string, error) {
		cfg := base
		if token != "" {
			cfg.Token = token
		}
		return buildDocument(ctx, cfg, owner, project)
	})

	fmt.Printf("ghcite API listening on port %d\n", port)
	return srv.ListenAndServe(port)
}
