// Package stats assembles indexing statistics and renders them as
// text, JSON or Markdown reports.
package stats

import (
	"context"
	"log/slog"

	"github.com/webgrep/sitesearch/internal/model"
)

// Store is the slice of the storage layer the collector reads from.
type Store interface {
	AllSites(ctx context.Context) ([]model.Site, error)
	CountPages(ctx context.Context, siteID int64) (int, error)
	CountLemmas(ctx context.Context, siteID int64) (int, error)
}

// Collector builds statistics reports from stored crawl data.
type Collector struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a Collector reading from store.
func NewCollector(store Store, opts ...Option) *Collector {
	c := &Collector{store: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Collect builds the full statistics report: per-site page and lemma
// counts plus cross-site totals. The Indexing flag is derived from the
// stored site statuses, so it reflects persisted state rather than
// in-process bookkeeping.
func (c *Collector) Collect(ctx context.Context) (*model.Statistics, error) {
	sites, err := c.store.AllSites(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.Statistics{
		Total:    model.TotalStatistics{Sites: len(sites)},
		Detailed: make([]model.SiteStatistics, 0, len(sites)),
	}

	for _, site := range sites {
		pages, err := c.store.CountPages(ctx, site.ID)
		if err != nil {
			return nil, err
		}
		lemmas, err := c.store.CountLemmas(ctx, site.ID)
		if err != nil {
			return nil, err
		}

		report.Total.Pages += pages
		report.Total.Lemmas += lemmas
		if site.Status == model.StatusIndexing {
			report.Total.Indexing = true
		}

		report.Detailed = append(report.Detailed, model.SiteStatistics{
			URL:        site.URL,
			Name:       site.Name,
			Status:     string(site.Status),
			StatusTime: site.StatusTime.UnixMilli(),
			Error:      site.LastError,
			Pages:      pages,
			Lemmas:     lemmas,
		})
	}

	return report, nil
}
