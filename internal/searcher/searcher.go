// Package searcher answers queries against the inverted index built by
// the crawler.
//
// A query is lemmatized the same way page text is, then resolved to
// pages that contain every query lemma. Lemmas are intersected rarest
// first so candidate sets shrink as fast as possible, and lemmas found
// on most of a site's pages are ignored as too common to discriminate.
package searcher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/webgrep/sitesearch/internal/config"
	"github.com/webgrep/sitesearch/internal/htmldoc"
	"github.com/webgrep/sitesearch/internal/lemma"
	"github.com/webgrep/sitesearch/internal/model"
)

// FrequencyCeiling is the document-frequency cutoff for query lemmas:
// a lemma present on more than this share of a site's pages carries no
// signal and is dropped from the query.
const FrequencyCeiling = 0.8

// Store is the slice of the storage layer the search engine reads from.
type Store interface {
	SiteByURL(ctx context.Context, url string) (*model.Site, error)
	AllSites(ctx context.Context) ([]model.Site, error)
	CountPages(ctx context.Context, siteID int64) (int, error)
	LemmaBySiteAndText(ctx context.Context, siteID int64, text string) (*model.Lemma, error)
	PagesByLemma(ctx context.Context, lemmaID int64) ([]model.Page, error)
	PageIDsByLemmaIn(ctx context.Context, lemmaID int64, pageIDs []int64) ([]int64, error)
	SumRank(ctx context.Context, pageID int64, lemmaIDs []int64) (float64, error)
}

// Engine is the search engine.
type Engine struct {
	store    Store
	analyzer *lemma.Analyzer
	sites    config.SiteList
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a search engine reading from store.
func New(store Store, analyzer *lemma.Analyzer, sites config.SiteList, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		analyzer: analyzer,
		sites:    sites,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// hit is one matching page before presentation.
type hit struct {
	site      model.Site
	page      model.Page
	relevance float64
}

// Search runs a query over one site or, when siteURL is empty, over
// every fully indexed site. Results are sorted by relevance, which is
// normalized so the best match scores 1.0, and paginated by offset and
// limit. Count always reports the full result size regardless of the
// requested window.
func (e *Engine) Search(ctx context.Context, query, siteURL string, offset, limit int) model.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.SearchResult{Error: "empty search query"}
	}
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	sites, res := e.targetSites(ctx, siteURL)
	if res != nil {
		return *res
	}

	lemmaSet := e.analyzer.QueryLemmas(query)
	if len(lemmaSet) == 0 {
		return model.SearchResult{Result: true, Count: 0, Data: []model.SearchItem{}}
	}

	var hits []hit
	for _, site := range sites {
		siteHits, err := e.searchSite(ctx, site, lemmaSet)
		if err != nil {
			e.logger.Error("site search failed", "site", site.URL, "error", err)
			return model.SearchResult{Error: fmt.Sprintf("search failed: %v", err)}
		}
		hits = append(hits, siteHits...)
	}

	normalize(hits)
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].relevance > hits[j].relevance
	})

	total := len(hits)
	items := []model.SearchItem{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		for _, h := range hits[offset:end] {
			items = append(items, e.present(h, lemmaSet))
		}
	}

	return model.SearchResult{Result: true, Count: total, Data: items}
}

// targetSites resolves the site filter to the list of sites to search.
// The second return value is a ready error response when the filter is
// invalid.
func (e *Engine) targetSites(ctx context.Context, siteURL string) ([]model.Site, *model.SearchResult) {
	if siteURL != "" {
		ent, err := e.store.SiteByURL(ctx, strings.TrimSuffix(siteURL, "/"))
		if err != nil {
			return nil, &model.SearchResult{Error: fmt.Sprintf("search failed: %v", err)}
		}
		if ent == nil {
			return nil, &model.SearchResult{Error: "site not found"}
		}
		if ent.Status != model.StatusIndexed {
			// A site mid-crawl or failed contributes no results; that is
			// an empty answer, not an error.
			return nil, nil
		}
		return []model.Site{*ent}, nil
	}

	all, err := e.store.AllSites(ctx)
	if err != nil {
		return nil, &model.SearchResult{Error: fmt.Sprintf("search failed: %v", err)}
	}
	var indexed []model.Site
	for _, s := range all {
		if s.Status == model.StatusIndexed {
			indexed = append(indexed, s)
		}
	}
	return indexed, nil
}

// searchSite finds the pages of one site containing every query lemma
// and computes their absolute relevance.
func (e *Engine) searchSite(ctx context.Context, site model.Site, lemmaSet map[string]struct{}) ([]hit, error) {
	pageCount, err := e.store.CountPages(ctx, site.ID)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return nil, nil
	}
	ceiling := FrequencyCeiling * float64(pageCount)

	// Query lemmas the site has never seen are discarded, like
	// over-common ones; only the survivors constrain the intersection.
	var lemmas []model.Lemma
	for text := range lemmaSet {
		l, err := e.store.LemmaBySiteAndText(ctx, site.ID, text)
		if err != nil {
			return nil, err
		}
		if l == nil {
			continue
		}
		if float64(l.Frequency) > ceiling {
			continue
		}
		lemmas = append(lemmas, *l)
	}
	if len(lemmas) == 0 {
		return nil, nil
	}

	// Rarest first keeps every subsequent intersection as small as the
	// smallest posting list seen so far.
	sort.Slice(lemmas, func(i, j int) bool {
		return lemmas[i].Frequency < lemmas[j].Frequency
	})

	pages, err := e.store.PagesByLemma(ctx, lemmas[0].ID)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}

	byID := make(map[int64]model.Page, len(pages))
	ids := make([]int64, 0, len(pages))
	for _, p := range pages {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	for _, l := range lemmas[1:] {
		ids, err = e.store.PageIDsByLemmaIn(ctx, l.ID, ids)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
	}

	lemmaIDs := make([]int64, 0, len(lemmas))
	for _, l := range lemmas {
		lemmaIDs = append(lemmaIDs, l.ID)
	}

	hits := make([]hit, 0, len(ids))
	for _, id := range ids {
		rank, err := e.store.SumRank(ctx, id, lemmaIDs)
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit{site: site, page: byID[id], relevance: rank})
	}
	return hits, nil
}

// normalize scales relevance so the best hit scores exactly 1.0.
func normalize(hits []hit) {
	var max float64
	for _, h := range hits {
		if h.relevance > max {
			max = h.relevance
		}
	}
	if max == 0 {
		return
	}
	for i := range hits {
		hits[i].relevance /= max
	}
}

// present renders one hit for the API: title, highlighted snippet and
// addressing fields.
func (e *Engine) present(h hit, lemmaSet map[string]struct{}) model.SearchItem {
	title := "Untitled"
	text := ""
	if doc, err := htmldoc.Parse(h.page.Path, strings.NewReader(h.page.Content)); err == nil {
		if doc.Title != "" {
			title = doc.Title
		}
		text = doc.Text
	}

	return model.SearchItem{
		Site:      strings.TrimSuffix(h.site.URL, "/"),
		SiteName:  h.site.Name,
		URI:       h.page.Path,
		Title:     title,
		Snippet:   e.snippet(text, lemmaSet),
		Relevance: h.relevance,
	}
}
