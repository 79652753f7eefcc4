package command

// root.go defines the root command for the codeconnect CLI.
// global flags are set up here.

import (
	"fmt"
	"os"

	"codeconnect/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL string // API server URL
	token  string // bearer token for authenticated calls
}

// NewRootCmd builds the command tree. Every call returns a fresh tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "codeconnect-cli",
		Short: "codeconnect-cli - CodeConnect Command Line Interface",
		Long: `codeconnect-cli is an operator tool for the CodeConnect API. Use it to:
- apply or roll back database migrations
- browse published projects and their ratings
- read platform statistics

Use "codeconnect-cli [command] --help" to see all available commands.`,
		SilenceUsage: true,
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("CODECONNECT_API_URL", "http://localhost:5000"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CODECONNECT_TOKEN"), "bearer token")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newProjectsCmd(opts),
		newStatsCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func (o *rootOptions) client() *client.HTTPClient {
	c := client.NewHTTPClient(o.apiURL)
	if o.token != "" {
		c.SetToken(o.token)
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
