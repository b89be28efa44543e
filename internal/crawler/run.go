package crawler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webgrep/sitesearch/internal/config"
	"github.com/webgrep/sitesearch/internal/fetcher"
	"github.com/webgrep/sitesearch/internal/htmldoc"
	"github.com/webgrep/sitesearch/internal/model"
	"github.com/webgrep/sitesearch/internal/storage"
)

// siteRun is the state of one site's crawl within a run.
type siteRun struct {
	site     config.Site
	frontier *frontier
	claimed  *claimSet

	// entMu guards ent, which both pool workers update via heartbeat.
	entMu sync.Mutex
	ent   *model.Site
}

// runSite crawls one configured site from scratch: previous data is
// purged, the site row is recreated as INDEXING, and the worker pool
// drains the frontier starting from the root URL.
func (c *Crawler) runSite(ctx context.Context, site config.Site) {
	logger := c.logger.With("site", site.URL)
	logger.Info("site crawl started")

	// Site rows and claims are keyed by the trimmed root; a trailing
	// slash in the configuration is cosmetic.
	root := strings.TrimSuffix(site.URL, "/")

	if err := c.store.DeleteSiteData(ctx, root); err != nil {
		logger.Error("failed to purge previous site data", "error", err)
		return
	}

	ent := &model.Site{
		URL:        root,
		Name:       site.Name,
		Status:     model.StatusIndexing,
		StatusTime: time.Now(),
	}
	if err := c.store.SaveSite(ctx, ent); err != nil {
		logger.Error("failed to create site row", "error", err)
		return
	}

	run := &siteRun{
		site:     site,
		ent:      ent,
		frontier: newFrontier(),
		claimed:  newClaimSet(),
	}

	run.claimed.Claim(root)
	run.frontier.Push(root)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-runCtx.Done()
		run.frontier.Close()
	}()

	g := new(errgroup.Group)
	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			return c.worker(runCtx, run, logger)
		})
	}
	err := g.Wait()

	switch {
	case err != nil:
		c.markFailed(run.ent, err, logger)
	case c.active.Load() && ctx.Err() == nil:
		run.ent.Status = model.StatusIndexed
		run.ent.StatusTime = time.Now()
		if saveErr := c.store.SaveSite(context.Background(), run.ent); saveErr != nil {
			logger.Error("failed to finalize site", "error", saveErr)
		}
		logger.Info("site crawl finished")
	default:
		// Stopped mid-run; StopIndexing sweeps the status.
		logger.Info("site crawl aborted")
	}
}

// worker drains the frontier until the crawl finishes, is canceled, or
// a fatal storage error occurs. Per-page trouble never returns an
// error; only storage unavailability does.
func (c *Crawler) worker(ctx context.Context, run *siteRun, logger *slog.Logger) error {
	for {
		pageURL, ok := run.frontier.Next()
		if !ok {
			return nil
		}
		err := c.processURL(ctx, run, pageURL, logger)
		run.frontier.Done()
		if err != nil {
			run.frontier.Close()
			return err
		}
		if !c.active.Load() || ctx.Err() != nil {
			run.frontier.Close()
			return nil
		}
	}
}

// processURL fetches, stores and indexes one page, then enqueues the
// links it discovers.
func (c *Crawler) processURL(ctx context.Context, run *siteRun, pageURL string, logger *slog.Logger) error {
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(c.delay):
	}

	doc, err := c.fetch.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		// Transport failures are expected crawl noise: the page is
		// skipped and its links stay undiscovered.
		var terr *fetcher.TransportError
		if errors.As(err, &terr) {
			logger.Debug("page skipped", "url", pageURL, "error", err)
			return nil
		}
		logger.Warn("fetch failed", "url", pageURL, "error", err)
		return nil
	}

	page := &model.Page{
		SiteID:  run.ent.ID,
		Path:    run.site.PathWithin(pageURL),
		Code:    doc.StatusCode,
		Content: doc.Body,
	}
	if err := c.store.InsertPage(ctx, page); err != nil {
		if errors.Is(err, storage.ErrDuplicatePage) {
			// Another worker stored this path first; drop this fetch.
			return nil
		}
		if storage.IsUnavailable(err) {
			return fatal(err)
		}
		logger.Warn("failed to store page", "url", pageURL, "error", err)
		return nil
	}

	if indexableStatus(doc.StatusCode) {
		if err := c.indexer.IndexPage(ctx, page, doc.Body); err != nil {
			if storage.IsUnavailable(err) {
				return fatal(err)
			}
			logger.Warn("page not indexed", "url", pageURL, "error", err)
		}
	}

	c.heartbeat(ctx, run, logger)

	parsed, err := htmldoc.Parse(pageURL, strings.NewReader(doc.Body))
	if err != nil {
		logger.Warn("failed to parse page links", "url", pageURL, "error", err)
		return nil
	}
	for _, link := range parsed.Links {
		// Trailing-slash variants are one URL for claiming purposes.
		link = strings.TrimSuffix(link, "/")
		if !c.shouldCrawl(run.site, link) {
			continue
		}
		if run.claimed.Claim(link) {
			run.frontier.Push(link)
		}
	}
	return nil
}

// heartbeat refreshes the site's status timestamp after each processed
// page so observers can see the crawl is alive.
func (c *Crawler) heartbeat(ctx context.Context, run *siteRun, logger *slog.Logger) {
	if !c.active.Load() {
		return
	}
	run.entMu.Lock()
	run.ent.StatusTime = time.Now()
	ent := *run.ent
	run.entMu.Unlock()
	if err := c.store.SaveSite(ctx, &ent); err != nil {
		logger.Debug("failed to refresh status time", "error", err)
	}
}

// markFailed records a fatal run error on the site row. Skipped when
// the run was already stopped, in which case the stop sweep owns the
// final status.
func (c *Crawler) markFailed(ent *model.Site, cause error, logger *slog.Logger) {
	logger.Error("site crawl failed", "error", cause)
	if !c.active.Load() {
		return
	}
	ent.Status = model.StatusFailed
	ent.StatusTime = time.Now()
	ent.LastError = cause.Error()
	if err := c.store.SaveSite(context.Background(), ent); err != nil {
		logger.Error("failed to record site failure", "error", err)
	}
}

// skippedExtensions lists URL suffixes that never hold indexable HTML.
var skippedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico", ".bmp", ".tiff",
	".pdf", ".zip", ".rar", ".7z", ".tar", ".gz",
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".mp3", ".mp4", ".avi", ".mov", ".wmv", ".flv",
	".css", ".js",
}

// shouldCrawl reports whether a discovered link belongs to the crawl:
// inside the site's URL prefix, no fragment, and not an obvious
// non-HTML resource.
func (c *Crawler) shouldCrawl(site config.Site, link string) bool {
	root := strings.TrimSuffix(site.URL, "/")
	if link != root && !strings.HasPrefix(link, root+"/") {
		return false
	}
	if strings.Contains(link, "#") {
		return false
	}
	lower := strings.ToLower(link)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}
