package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webgrep/sitesearch/internal/config"
	"github.com/webgrep/sitesearch/internal/crawler"
	"github.com/webgrep/sitesearch/internal/fetcher"
	"github.com/webgrep/sitesearch/internal/indexer"
	"github.com/webgrep/sitesearch/internal/lemma"
	"github.com/webgrep/sitesearch/internal/log"
	"github.com/webgrep/sitesearch/internal/searcher"
	"github.com/webgrep/sitesearch/internal/stats"
	"github.com/webgrep/sitesearch/internal/storage"
)

// buildConfig creates a Config from cobra command flags and the yaml
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	// An explicitly requested config file must exist; the default search
	// order may come up empty, which is its own error below because the
	// site list is mandatory.
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if explicit {
			return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil, fmt.Errorf("no configuration file found (create %s with a sites list)", config.DefaultConfigFile)
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.Sites = file.Sites
	if file.Listen != "" {
		cfg.ListenAddr = file.Listen
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getStringFlag retrieves a string flag from the command or its parent,
// returning "" when the flag is unknown.
func getStringFlag(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return value
}

// setupLogger creates a structured logger based on verbosity setting.
// The serve command switches to JSON output so the service logs stay
// machine-readable under a log aggregator.
func setupLogger(verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return log.NewJSONLogger(os.Stderr, verbose)
	}
	return log.NewLogger(os.Stderr, verbose)
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// app bundles the wired components shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *storage.DB
	crawler  *crawler.Crawler
	searcher *searcher.Engine
	stats    *stats.Collector
}

// newApp opens the database and wires the engines together.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	db, err := storage.Open(cfg.DBDir, storage.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database opened", "dir", cfg.DBDir)

	fetch := fetcher.New(cfg.FetchTimeout,
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithReferrer(cfg.Referrer),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	)
	analyzer := lemma.NewAnalyzer()
	indexEngine := indexer.New(db, analyzer, indexer.WithLogger(logger))

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		crawler: crawler.New(db, fetch, indexEngine, cfg.Sites,
			crawler.WithLogger(logger),
			crawler.WithCrawlDelay(cfg.CrawlDelay),
			crawler.WithWorkersPerSite(cfg.WorkersPerSite),
		),
		searcher: searcher.New(db, analyzer, cfg.Sites, searcher.WithLogger(logger)),
		stats:    stats.NewCollector(db, stats.WithLogger(logger)),
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.db.Close()
}
