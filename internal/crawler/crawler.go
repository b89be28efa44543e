// Package crawler walks configured sites breadth-first and feeds every
// discovered page to the indexing engine.
//
// One crawl run owns a fixed-width worker pool per site; sites crawl in
// parallel and pages within a site crawl in parallel up to the pool
// width. A process-wide active flag makes runs mutually exclusive:
// starting while a run is active and stopping while none is are both
// reported as errors to the caller.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/webgrep/sitesearch/internal/config"
	"github.com/webgrep/sitesearch/internal/fetcher"
	"github.com/webgrep/sitesearch/internal/model"
	"github.com/webgrep/sitesearch/internal/storage"
)

// Store is the slice of the storage layer the crawler depends on.
type Store interface {
	SiteByURL(ctx context.Context, url string) (*model.Site, error)
	SaveSite(ctx context.Context, site *model.Site) error
	DeleteSiteData(ctx context.Context, url string) error
	InsertPage(ctx context.Context, page *model.Page) error
	PageByPath(ctx context.Context, siteID int64, path string) (*model.Page, error)
	DeletePage(ctx context.Context, pageID int64) error
	DeletePageIndex(ctx context.Context, pageID int64) error
}

// Fetcher retrieves one document over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetcher.Document, error)
}

// Indexer writes the inverted-index rows for one stored page.
type Indexer interface {
	IndexPage(ctx context.Context, page *model.Page, htmlBody string) error
}

// Crawler coordinates crawl runs over the configured sites.
type Crawler struct {
	store   Store
	fetch   Fetcher
	indexer Indexer
	sites   config.SiteList
	logger  *slog.Logger

	// delay is the politeness pause before every fetch.
	delay time.Duration

	// workers is the pool width per site.
	workers int

	// active is the process-wide indexing flag. Exactly one run may
	// hold it.
	active atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithCrawlDelay overrides the politeness delay before each fetch.
func WithCrawlDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithWorkersPerSite overrides the worker pool width per site.
func WithWorkersPerSite(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New creates a Crawler over the configured sites.
func New(store Store, fetch Fetcher, indexer Indexer, sites config.SiteList, opts ...Option) *Crawler {
	c := &Crawler{
		store:   store,
		fetch:   fetch,
		indexer: indexer,
		sites:   sites,
		delay:   config.DefaultCrawlDelay,
		workers: config.DefaultWorkersPerSite,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// IsActive reports whether an indexing run is in progress.
func (c *Crawler) IsActive() bool {
	return c.active.Load()
}

// StartIndexing launches a full crawl of every configured site and
// returns immediately. The run continues in the background until it
// drains or StopIndexing is called.
func (c *Crawler) StartIndexing(_ context.Context) model.Ack {
	if !c.active.CompareAndSwap(false, true) {
		return model.Fail("indexing is already running")
	}

	// The run deliberately outlives the caller's context: an HTTP
	// request only triggers the crawl, it does not own it.
	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(len(c.sites))
	for _, site := range c.sites {
		go func(site config.Site) {
			defer c.wg.Done()
			c.runSite(runCtx, site)
		}(site)
	}

	go func() {
		c.wg.Wait()
		cancel()
		// The flag may already be cleared by StopIndexing.
		c.active.CompareAndSwap(true, false)
		c.logger.Info("indexing run finished")
	}()

	return model.OK()
}

// StopIndexing aborts the active run: the flag is cleared first so
// in-flight workers stop claiming new work, queued URLs are discarded,
// and once the pools have drained every site still marked INDEXING is
// finalized as INDEXED.
func (c *Crawler) StopIndexing(ctx context.Context) model.Ack {
	if !c.active.CompareAndSwap(true, false) {
		return model.Fail("indexing is not running")
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	// Let in-flight page work retire before the sweep so a late status
	// heartbeat cannot overwrite the final INDEXED state.
	c.wg.Wait()

	for _, site := range c.sites {
		ent, err := c.store.SiteByURL(ctx, strings.TrimSuffix(site.URL, "/"))
		if err != nil {
			c.logger.Error("failed to load site during stop", "site", site.URL, "error", err)
			continue
		}
		if ent == nil || ent.Status != model.StatusIndexing {
			continue
		}
		ent.Status = model.StatusIndexed
		ent.StatusTime = time.Now()
		if err := c.store.SaveSite(ctx, ent); err != nil {
			c.logger.Error("failed to finalize site during stop", "site", site.URL, "error", err)
		}
	}

	return model.OK()
}

// Wait blocks until the current run's workers have all returned. It is
// a helper for tests and graceful shutdown, not part of the crawl
// lifecycle.
func (c *Crawler) Wait() {
	c.wg.Wait()
}

// IndexSinglePage re-indexes one page of an already configured site.
// Existing index rows for the page are removed before the fresh fetch
// so the operation is idempotent.
func (c *Crawler) IndexSinglePage(ctx context.Context, rawURL string) model.Ack {
	site, ok := c.sites.Resolve(strings.TrimSpace(rawURL))
	if !ok {
		return model.Fail("the page is outside the sites configured for indexing")
	}

	siteURL := strings.TrimSuffix(site.URL, "/")
	ent, err := c.store.SiteByURL(ctx, siteURL)
	if err != nil {
		return model.Fail(fmt.Sprintf("failed to load site: %v", err))
	}
	if ent == nil {
		ent = &model.Site{
			URL:        siteURL,
			Name:       site.Name,
			Status:     model.StatusIndexing,
			StatusTime: time.Now(),
		}
		if err := c.store.SaveSite(ctx, ent); err != nil {
			return model.Fail(fmt.Sprintf("failed to create site: %v", err))
		}
	}

	path := site.PathWithin(rawURL)
	if existing, err := c.store.PageByPath(ctx, ent.ID, path); err != nil {
		return model.Fail(fmt.Sprintf("failed to look up page: %v", err))
	} else if existing != nil {
		if err := c.store.DeletePageIndex(ctx, existing.ID); err != nil {
			return model.Fail(fmt.Sprintf("failed to drop old index rows: %v", err))
		}
		if err := c.store.DeletePage(ctx, existing.ID); err != nil {
			return model.Fail(fmt.Sprintf("failed to drop old page: %v", err))
		}
	}

	doc, err := c.fetch.Fetch(ctx, rawURL)
	if err != nil {
		return model.Fail(fmt.Sprintf("failed to fetch page: %v", err))
	}

	page := &model.Page{
		SiteID:  ent.ID,
		Path:    path,
		Code:    doc.StatusCode,
		Content: doc.Body,
	}
	if err := c.store.InsertPage(ctx, page); err != nil {
		if errors.Is(err, storage.ErrDuplicatePage) {
			// A concurrent crawl got there first; its copy stands.
			return model.OK()
		}
		return model.Fail(fmt.Sprintf("failed to store page: %v", err))
	}

	if indexableStatus(doc.StatusCode) {
		if err := c.indexer.IndexPage(ctx, page, doc.Body); err != nil {
			return model.Fail(fmt.Sprintf("failed to index page content: %v", err))
		}
	}

	if ent.Status == model.StatusIndexing {
		ent.Status = model.StatusIndexed
	}
	ent.StatusTime = time.Now()
	if err := c.store.SaveSite(ctx, ent); err != nil {
		c.logger.Error("failed to update site after single-page index", "site", ent.URL, "error", err)
	}

	return model.OK()
}

// indexableStatus reports whether a page with this HTTP status code
// contributes content to the index. Error pages are stored for
// statistics but their bodies are not indexed.
func indexableStatus(code int) bool {
	return code >= 200 && code < 400
}

// errStorageGone marks a site-run abort caused by the storage layer
// becoming unreachable, as opposed to per-page trouble.
var errStorageGone = errors.New("storage unavailable")

// fatal wraps storage errors that must abort the whole site-run.
func fatal(err error) error {
	return fmt.Errorf("%w: %w", errStorageGone, err)
}
