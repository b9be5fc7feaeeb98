// Package action implements the CI automation surface: parameters come
// from INPUT_* environment variables and the generated document is
// published as a named output value.
package action

import (
	"fmt"
	"io"
	"os"
)

// Input parameter names, matching the automation platform's convention of
// prefixing action inputs with INPUT_.
const (
	EnvRepoOwner = "INPUT_REPOOWNER"
	EnvRepoName  = "INPUT_REPONAME"
	EnvAPIToken  = "INPUT_APITOKEN"
	EnvWebURL    = "INPUT_GITHUBURL"
	EnvAPIURL    = "INPUT_GITHUBAPIURL"

	// EnvOutputFile names the file output values are appended to.
	EnvOutputFile = "GITHUB_OUTPUT"
)

// Params are the inputs read from the environment.
type Params struct {
	Owner  string
	Name   string
	Token  string
	WebURL string
	APIURL string
}

// ParamsFromEnv collects the action inputs. Owner and name are required.
func ParamsFromEnv() (Params, error) {
	p := Params{
		Owner:  os.Getenv(EnvRepoOwner),
		Name:   os.Getenv(EnvRepoName),
		Token:  os.Getenv(EnvAPIToken),
		WebURL: os.Getenv(EnvWebURL),
		APIURL: os.Getenv(EnvAPIURL),
	}
	if p.Owner == "" || p.Name == "" {
		return Params{}, fmt.Errorf("%s and %s must be set", EnvRepoOwner, EnvRepoName)
	}
	return p, nil
}

// WriteOutput appends one named output value in the platform's heredoc
// format.
func WriteOutput(w io.Writer, name, value string) error {
	_, err := fmt.Fprintf(w, "%s<<EOF\n%s\nEOF\n", name, value)
	return err
}

// PublishOutput appends the named value to the output file named by
// GITHUB_OUTPUT.
func PublishOutput(name, value string) error {
	path := os.Getenv(EnvOutputFile)
	if path == "" {
		return fmt.Errorf("%s is not set", EnvOutputFile)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()
	return WriteOutput(f, name, value)
}
