// Package main provides the entry point for the sitesearch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitesearch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitesearch",
		Short: "Local search engine for configured sites",
		Long: `sitesearch is a local search engine. It crawls the sites listed in its
configuration file, builds an inverted index in a SQLite database, and
answers ranked full-text queries over the indexed pages.

Run "sitesearch serve" for the HTTP API, or use the crawl, search and
stats commands directly from the terminal.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .sitesearch.yaml in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
