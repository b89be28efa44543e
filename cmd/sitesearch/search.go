package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webgrep/sitesearch/internal/config"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Query the index from the terminal",
		Long: `Search runs a query against the local index and prints the ranked
results.

Examples:
  # Search all indexed sites
  sitesearch search "installation guide"

  # Search one site, second page of results
  sitesearch search --site https://example.com --offset 20 "release notes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().StringP("site", "s", "", "Restrict the search to one site root URL")
	cmd.Flags().IntP("offset", "o", 0, "Result offset for pagination")
	cmd.Flags().IntP("limit", "n", config.DefaultSearchLimit, "Maximum number of results")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose, false)
	slog.SetDefault(logger)

	site, err := cmd.Flags().GetString("site")
	if err != nil {
		return err
	}
	offset, err := cmd.Flags().GetInt("offset")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.searcher.Search(cmd.Context(), strings.Join(args, " "), site, offset, limit)
	if !result.Result {
		return errors.New(result.Error)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d result(s)\n\n", result.Count)
	for i, item := range result.Data {
		fmt.Fprintf(out, "%d. %s (%.3f)\n", offset+i+1, item.Title, item.Relevance)
		fmt.Fprintf(out, "   %s%s\n", item.Site, item.URI)
		if item.Snippet != "" {
			fmt.Fprintf(out, "   %s\n", stripBold(item.Snippet))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// stripBold removes the <b> highlight tags for terminal output.
func stripBold(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}
