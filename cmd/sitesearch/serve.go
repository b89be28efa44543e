package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/webgrep/sitesearch/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve runs the search engine as an HTTP service.

Endpoints:
  GET  /api/startIndexing   start a full crawl of all configured sites
  GET  /api/stopIndexing    abort the running crawl
  POST /api/indexPage?url=  re-index a single page
  GET  /api/search          query the index (query, site, offset, limit)
  GET  /api/statistics      indexing statistics

Examples:
  # Serve on the default address (:8080)
  sitesearch serve

  # Serve on a custom address with verbose logging
  sitesearch serve --listen :3000 -v`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "",
		"Listen address (default from config file, else :8080)")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON instead of text")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if listen := getStringFlag(cmd, "listen"); listen != "" {
		cfg.ListenAddr = listen
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Verbose, logJSON)
	slog.SetDefault(logger)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(logger)
	defer cancel()

	srv := server.New(cfg.ListenAddr, a.crawler, a.searcher, a.stats,
		server.WithLogger(logger))

	err = srv.Serve(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	// A crawl started over the API keeps running after the listener
	// closes; let it finish or observe the stop flag before closing the
	// database under it.
	if a.crawler.IsActive() {
		a.crawler.StopIndexing(cmd.Context())
	}
	a.crawler.Wait()

	return err
}
