package searcher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/webgrep/sitesearch/internal/config"
	"github.com/webgrep/sitesearch/internal/lemma"
	"github.com/webgrep/sitesearch/internal/model"
	"github.com/webgrep/sitesearch/internal/storage"
)

// testPage is one page of a fixture site: HTML content plus the lemma
// counts to index for it.
type testPage struct {
	path    string
	content string
	lemmas  map[string]int
}

// setupSite creates an indexed site with the given pages.
func setupSite(t *testing.T, db *storage.DB, url string, status model.SiteStatus, pages []testPage) *model.Site {
	t.Helper()
	ctx := context.Background()

	site := &model.Site{URL: url, Name: "Test Site", Status: status, StatusTime: time.Now()}
	if err := db.SaveSite(ctx, site); err != nil {
		t.Fatalf("failed to save site: %v", err)
	}

	for _, p := range pages {
		page := &model.Page{SiteID: site.ID, Path: p.path, Code: 200, Content: p.content}
		if err := db.InsertPage(ctx, page); err != nil {
			t.Fatalf("failed to insert page %s: %v", p.path, err)
		}
		if len(p.lemmas) > 0 {
			if err := db.WriteIndex(ctx, page, p.lemmas); err != nil {
				t.Fatalf("failed to index page %s: %v", p.path, err)
			}
		}
	}
	return site
}

// newTestEngine creates a search engine over a fresh database.
func newTestEngine(t *testing.T, sites config.SiteList) (*Engine, *storage.DB) {
	t.Helper()

	db, err := storage.Open(t.TempDir(), storage.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return New(db, lemma.NewAnalyzer(), sites), db
}

func page(path, text string, lemmas map[string]int) testPage {
	return testPage{
		path:    path,
		content: "<html><head><title>Page " + path + "</title></head><body><p>" + text + "</p></body></html>",
		lemmas:  lemmas,
	}
}

// TestSearchValidation tests query and site filter validation.
func TestSearchValidation(t *testing.T) {
	t.Parallel()

	t.Run("blank query is an error", func(t *testing.T) {
		t.Parallel()

		engine, _ := newTestEngine(t, nil)
		result := engine.Search(context.Background(), "   ", "", 0, 10)
		if result.Result {
			t.Fatal("expected failure for blank query")
		}
		if result.Error != "empty search query" {
			t.Errorf("unexpected error message %q", result.Error)
		}
	})

	t.Run("unknown site filter is an error", func(t *testing.T) {
		t.Parallel()

		engine, _ := newTestEngine(t, nil)
		result := engine.Search(context.Background(), "lemon", "https://nowhere.invalid", 0, 10)
		if result.Result {
			t.Fatal("expected failure for unknown site")
		}
		if result.Error != "site not found" {
			t.Errorf("unexpected error message %q", result.Error)
		}
	})

	t.Run("site still indexing contributes no results", func(t *testing.T) {
		t.Parallel()

		engine, db := newTestEngine(t, nil)
		setupSite(t, db, "https://example.com", model.StatusIndexing, []testPage{
			page("/a", "lemon", map[string]int{"lemon": 1}),
		})

		result := engine.Search(context.Background(), "lemon", "https://example.com", 0, 10)
		if !result.Result {
			t.Fatalf("expected an empty success, got error %q", result.Error)
		}
		if result.Count != 0 || len(result.Data) != 0 {
			t.Errorf("expected no hits from a mid-crawl site, got %+v", result)
		}
	})

	t.Run("stop-word-only query succeeds with zero hits", func(t *testing.T) {
		t.Parallel()

		engine, db := newTestEngine(t, nil)
		setupSite(t, db, "https://example.com", model.StatusIndexed, nil)

		result := engine.Search(context.Background(), "the and of", "", 0, 10)
		if !result.Result {
			t.Fatalf("expected success, got error %q", result.Error)
		}
		if result.Count != 0 || len(result.Data) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}

// TestSearchIntersection tests the all-lemmas-required semantics.
func TestSearchIntersection(t *testing.T) {
	t.Parallel()

	engine, db := newTestEngine(t, nil)
	setupSite(t, db, "https://example.com", model.StatusIndexed, []testPage{
		page("/a", "lemon only", map[string]int{"lemon": 1}),
		page("/b", "lemon tree", map[string]int{"lemon": 1, "tree": 1}),
		page("/c", "lemon tree again", map[string]int{"lemon": 1, "tree": 2}),
		page("/d", "tree only", map[string]int{"tree": 1}),
	})

	result := engine.Search(context.Background(), "lemon tree", "", 0, 10)
	if !result.Result {
		t.Fatalf("search failed: %s", result.Error)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 hits, got %d", result.Count)
	}

	paths := map[string]bool{}
	for _, item := range result.Data {
		paths[item.URI] = true
	}
	if !paths["/b"] || !paths["/c"] {
		t.Errorf("expected /b and /c, got %v", paths)
	}

	t.Run("absent query lemmas are discarded", func(t *testing.T) {
		// "zebra" appears on no page, so only "lemon" constrains the
		// intersection and the lemon pages still match.
		result := engine.Search(context.Background(), "lemon zebra", "", 0, 10)
		if !result.Result {
			t.Fatalf("search failed: %s", result.Error)
		}
		if result.Count != 3 {
			t.Errorf("expected the three lemon pages, got %d", result.Count)
		}
	})
}

// TestSearchRanking tests relevance ordering and normalization.
func TestSearchRanking(t *testing.T) {
	t.Parallel()

	engine, db := newTestEngine(t, nil)
	setupSite(t, db, "https://example.com", model.StatusIndexed, []testPage{
		page("/rich", "lemon lemon lemon", map[string]int{"lemon": 3}),
		page("/poor", "lemon", map[string]int{"lemon": 1}),
	})

	result := engine.Search(context.Background(), "lemon", "", 0, 10)
	if !result.Result {
		t.Fatalf("search failed: %s", result.Error)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 hits, got %d", result.Count)
	}

	if result.Data[0].URI != "/rich" {
		t.Errorf("expected the richer page first, got %s", result.Data[0].URI)
	}
	if result.Data[0].Relevance != 1.0 {
		t.Errorf("expected the best hit to score exactly 1.0, got %f", result.Data[0].Relevance)
	}
	if got := result.Data[1].Relevance; got <= 0 || got >= 1 {
		t.Errorf("expected the second hit in (0,1), got %f", got)
	}
}

// TestSearchFrequencyCutoff tests that over-common lemmas are ignored.
func TestSearchFrequencyCutoff(t *testing.T) {
	t.Parallel()

	engine, db := newTestEngine(t, nil)

	// "water" appears on all five pages (frequency 5 > 80% of 5), so it
	// carries no signal and must not constrain the search.
	setupSite(t, db, "https://example.com", model.StatusIndexed, []testPage{
		page("/1", "lemon water", map[string]int{"lemon": 1, "water": 1}),
		page("/2", "lemon water", map[string]int{"lemon": 1, "water": 1}),
		page("/3", "stone water", map[string]int{"stone": 1, "water": 1}),
		page("/4", "melon water", map[string]int{"melon": 1, "water": 1}),
		page("/5", "river water", map[string]int{"river": 1, "water": 1}),
	})

	t.Run("common lemma does not constrain rarer ones", func(t *testing.T) {
		result := engine.Search(context.Background(), "lemon water", "", 0, 10)
		if !result.Result {
			t.Fatalf("search failed: %s", result.Error)
		}
		if result.Count != 2 {
			t.Errorf("expected the two lemon pages, got %d", result.Count)
		}
	})

	t.Run("query of only over-common lemmas finds nothing", func(t *testing.T) {
		result := engine.Search(context.Background(), "water", "", 0, 10)
		if !result.Result {
			t.Fatalf("search failed: %s", result.Error)
		}
		if result.Count != 0 {
			t.Errorf("expected no hits, got %d", result.Count)
		}
	})
}

// TestSearchPagination tests offset and limit handling.
func TestSearchPagination(t *testing.T) {
	t.Parallel()

	engine, db := newTestEngine(t, nil)
	setupSite(t, db, "https://example.com", model.StatusIndexed, []testPage{
		page("/1", "lemon", map[string]int{"lemon": 3}),
		page("/2", "lemon", map[string]int{"lemon": 2}),
		page("/3", "lemon", map[string]int{"lemon": 1}),
	})

	t.Run("window respects offset and limit", func(t *testing.T) {
		result := engine.Search(context.Background(), "lemon", "", 1, 1)
		if !result.Result {
			t.Fatalf("search failed: %s", result.Error)
		}
		if result.Count != 3 {
			t.Errorf("expected full count 3, got %d", result.Count)
		}
		if len(result.Data) != 1 || result.Data[0].URI != "/2" {
			t.Errorf("expected the middle hit, got %+v", result.Data)
		}
	})

	t.Run("offset past the end keeps the true count", func(t *testing.T) {
		result := engine.Search(context.Background(), "lemon", "", 10, 5)
		if !result.Result {
			t.Fatalf("search failed: %s", result.Error)
		}
		if result.Count != 3 {
			t.Errorf("expected count 3, got %d", result.Count)
		}
		if len(result.Data) != 0 {
			t.Errorf("expected no items, got %+v", result.Data)
		}
	})
}

// TestSearchPresentation tests titles, snippets and site filtering.
func TestSearchPresentation(t *testing.T) {
	t.Parallel()

	engine, db := newTestEngine(t, nil)

	content := `<html><head><title>Citrus Handbook</title></head><body>
	<p>The lemon tree grows well in warm coastal climates around the sea.
	Completely unrelated sentence about stones and rivers flowing north.
	Lemons are harvested green and ripen slowly in storage crates.</p>
	</body></html>`
	setupSite(t, db, "https://example.com", model.StatusIndexed, []testPage{
		{path: "/citrus", content: content, lemmas: map[string]int{"lemon": 2, "tree": 1}},
		{path: "/bare", content: "<html><body>lemon</body></html>", lemmas: map[string]int{"lemon": 1}},
	})

	result := engine.Search(context.Background(), "lemon", "https://example.com", 0, 10)
	if !result.Result {
		t.Fatalf("search failed: %s", result.Error)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 hits, got %d", result.Count)
	}

	byURI := map[string]model.SearchItem{}
	for _, item := range result.Data {
		byURI[item.URI] = item
	}

	citrus := byURI["/citrus"]
	if citrus.Title != "Citrus Handbook" {
		t.Errorf("expected page title, got %q", citrus.Title)
	}
	if !strings.Contains(citrus.Snippet, "<b>") {
		t.Errorf("expected highlighted snippet, got %q", citrus.Snippet)
	}
	if strings.Contains(citrus.Snippet, "stones and rivers") {
		t.Errorf("snippet should prefer matching sentences, got %q", citrus.Snippet)
	}
	if citrus.Site != "https://example.com" || citrus.SiteName != "Test Site" {
		t.Errorf("unexpected addressing fields: %+v", citrus)
	}

	if byURI["/bare"].Title != "Untitled" {
		t.Errorf("expected Untitled placeholder, got %q", byURI["/bare"].Title)
	}
}

// TestSearchMultiSite tests that unfiltered queries span indexed sites
// only.
func TestSearchMultiSite(t *testing.T) {
	t.Parallel()

	engine, db := newTestEngine(t, nil)
	setupSite(t, db, "https://one.example", model.StatusIndexed, []testPage{
		page("/a", "lemon", map[string]int{"lemon": 1}),
	})
	setupSite(t, db, "https://two.example", model.StatusIndexed, []testPage{
		page("/b", "lemon", map[string]int{"lemon": 4}),
	})
	setupSite(t, db, "https://broken.example", model.StatusFailed, []testPage{
		page("/c", "lemon", map[string]int{"lemon": 9}),
	})

	result := engine.Search(context.Background(), "lemon", "", 0, 10)
	if !result.Result {
		t.Fatalf("search failed: %s", result.Error)
	}
	if result.Count != 2 {
		t.Fatalf("expected hits from the two indexed sites, got %d", result.Count)
	}

	// Normalization spans sites: the best hit overall scores 1.0.
	if result.Data[0].Site != "https://two.example" || result.Data[0].Relevance != 1.0 {
		t.Errorf("unexpected best hit: %+v", result.Data[0])
	}
}
