package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/webgrep/sitesearch/internal/stats"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show indexing statistics",
		Long: `Stats prints page and lemma counts per site together with each
site's indexing status.

Examples:
  # Human-readable statistics
  sitesearch stats

  # JSON for scripting
  sitesearch stats --json

  # Markdown report written to a file
  sitesearch stats --markdown --output stats.md`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose, false)
	slog.SetDefault(logger)

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if asJSON && asMarkdown {
		return errors.New("--json and --markdown are mutually exclusive")
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.stats.Collect(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to collect statistics: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(outputPath) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w stats.Writer
	switch {
	case asJSON:
		w = stats.NewJSONWriter(out, stats.WithPrettyPrint())
	case asMarkdown:
		w = stats.NewMarkdownWriter(out)
	default:
		w = stats.NewTextWriter(out, stats.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
