package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/webgrep/sitesearch/internal/model"
	"github.com/webgrep/sitesearch/internal/storage"
)

// setupData populates a fresh database with two sites.
func setupData(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(t.TempDir(), storage.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	ctx := context.Background()

	one := &model.Site{URL: "https://one.example", Name: "One", Status: model.StatusIndexed, StatusTime: time.Now()}
	two := &model.Site{URL: "https://two.example", Name: "Two", Status: model.StatusIndexing, StatusTime: time.Now()}
	for _, s := range []*model.Site{one, two} {
		if err := db.SaveSite(ctx, s); err != nil {
			t.Fatalf("failed to save site: %v", err)
		}
	}

	for _, path := range []string{"/a", "/b"} {
		page := &model.Page{SiteID: one.ID, Path: path, Code: 200, Content: "x"}
		if err := db.InsertPage(ctx, page); err != nil {
			t.Fatalf("failed to insert page: %v", err)
		}
		if err := db.WriteIndex(ctx, page, map[string]int{"lemon": 1}); err != nil {
			t.Fatalf("failed to write index: %v", err)
		}
	}
	return db
}

// TestCollect tests report assembly.
func TestCollect(t *testing.T) {
	t.Parallel()

	db := setupData(t)
	collector := NewCollector(db)

	report, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("failed to collect: %v", err)
	}

	if report.Total.Sites != 2 {
		t.Errorf("expected 2 sites, got %d", report.Total.Sites)
	}
	if report.Total.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", report.Total.Pages)
	}
	if report.Total.Lemmas != 1 {
		t.Errorf("expected 1 lemma, got %d", report.Total.Lemmas)
	}
	if !report.Total.Indexing {
		t.Error("expected the indexing flag to be set while a site is INDEXING")
	}

	if len(report.Detailed) != 2 {
		t.Fatalf("expected 2 detail entries, got %d", len(report.Detailed))
	}
	first := report.Detailed[0]
	if first.URL != "https://one.example" || first.Pages != 2 || first.Lemmas != 1 {
		t.Errorf("unexpected first detail entry: %+v", first)
	}
	if first.StatusTime == 0 {
		t.Error("expected a status timestamp")
	}
}

// TestWriters tests the report output formats.
func TestWriters(t *testing.T) {
	t.Parallel()

	report := &model.Statistics{
		Total: model.TotalStatistics{Sites: 1, Pages: 3, Lemmas: 7},
		Detailed: []model.SiteStatistics{{
			URL:        "https://one.example",
			Name:       "One",
			Status:     "INDEXED",
			StatusTime: time.Now().UnixMilli(),
			Pages:      3,
			Lemmas:     7,
		}},
	}

	t.Run("text writer lists totals and sites", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(report); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Sites:  1", "Pages:  3", "One (https://one.example)", "INDEXED"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json writer round-trips the report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(report); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		var got model.Statistics
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid json: %v", err)
		}
		if got.Total != report.Total {
			t.Errorf("totals changed in transit: %+v", got.Total)
		}
	})

	t.Run("markdown writer emits tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "# Index Statistics") {
			t.Errorf("missing header:\n%s", out)
		}
		if !strings.Contains(out, "| One") && !strings.Contains(out, "One |") {
			t.Errorf("missing site row:\n%s", out)
		}
		if !strings.Contains(out, "```mermaid") {
			t.Errorf("missing pie chart block:\n%s", out)
		}
	})

	t.Run("multi writer fans out", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewTextWriter(&a), NewJSONWriter(&b))
		if _, err := mw.Write(report); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})
}
