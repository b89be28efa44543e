package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl and index the configured sites",
		Long: `Crawl performs a full re-index of every site in the configuration
file and waits for it to finish. Previous index data for each site is
replaced.

With a URL argument, only that single page is fetched and re-indexed;
the page must belong to one of the configured sites.

Examples:
  # Re-index all configured sites
  sitesearch crawl

  # Re-index one page
  sitesearch crawl https://example.com/articles/42`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose, false)
	slog.SetDefault(logger)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(logger)
	defer cancel()

	if len(args) == 1 {
		ack := a.crawler.IndexSinglePage(ctx, args[0])
		if !ack.Result {
			return errors.New(ack.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %s\n", args[0])
		return nil
	}

	if ack := a.crawler.StartIndexing(ctx); !ack.Result {
		return errors.New(ack.Error)
	}

	// Stop cleanly on Ctrl-C; otherwise wait for the run to drain.
	done := make(chan struct{})
	go func() {
		a.crawler.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		a.crawler.StopIndexing(context.Background())
		<-done
	case <-done:
	}

	fmt.Fprintln(cmd.OutOrStdout(), "crawl finished")
	return nil
}
