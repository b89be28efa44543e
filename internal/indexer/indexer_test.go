package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/webgrep/sitesearch/internal/lemma"
	"github.com/webgrep/sitesearch/internal/model"
)

// fakeStore records WriteIndex calls and fails a configurable number of
// times before succeeding.
type fakeStore struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
	lemmas   map[string]int
}

func (s *fakeStore) WriteIndex(_ context.Context, _ *model.Page, lemmas map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return s.err
	}
	s.lemmas = lemmas
	return nil
}

// TestIndexPage tests the indexing engine.
func TestIndexPage(t *testing.T) {
	t.Parallel()

	page := &model.Page{ID: 1, SiteID: 1, Path: "/"}

	t.Run("writes the lemma counts of the page text", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		engine := New(store, lemma.NewAnalyzer())

		body := "<html><body><p>lemon lemon tree</p></body></html>"
		if err := engine.IndexPage(context.Background(), page, body); err != nil {
			t.Fatalf("failed to index: %v", err)
		}
		if store.calls != 1 {
			t.Fatalf("expected one write, got %d", store.calls)
		}
		if store.lemmas["lemon"] != 2 || store.lemmas["tree"] != 1 {
			t.Errorf("unexpected lemma counts: %v", store.lemmas)
		}
	})

	t.Run("skips pages with no indexable words", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		engine := New(store, lemma.NewAnalyzer())

		body := "<html><body><p>of the and 42</p></body></html>"
		if err := engine.IndexPage(context.Background(), page, body); err != nil {
			t.Fatalf("expected nil for empty lemma set, got %v", err)
		}
		if store.calls != 0 {
			t.Errorf("expected no writes, got %d", store.calls)
		}
	})

	t.Run("retries contention then succeeds", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{failures: 2, err: errors.New("database is locked (5) (SQLITE_BUSY)")}
		engine := New(store, lemma.NewAnalyzer())

		body := "<html><body>lemon</body></html>"
		if err := engine.IndexPage(context.Background(), page, body); err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if store.calls != 3 {
			t.Errorf("expected 3 attempts, got %d", store.calls)
		}
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		t.Parallel()

		contention := errors.New("database is locked (5) (SQLITE_BUSY)")
		store := &fakeStore{failures: 10, err: contention}
		engine := New(store, lemma.NewAnalyzer())

		body := "<html><body>lemon</body></html>"
		err := engine.IndexPage(context.Background(), page, body)
		if !errors.Is(err, contention) {
			t.Fatalf("expected the contention error, got %v", err)
		}
		if store.calls != maxAttempts {
			t.Errorf("expected %d attempts, got %d", maxAttempts, store.calls)
		}
	})

	t.Run("non-contention errors are not retried", func(t *testing.T) {
		t.Parallel()

		broken := errors.New("no such table: lemma")
		store := &fakeStore{failures: 10, err: broken}
		engine := New(store, lemma.NewAnalyzer())

		body := "<html><body>lemon</body></html>"
		err := engine.IndexPage(context.Background(), page, body)
		if !errors.Is(err, broken) {
			t.Fatalf("expected the original error, got %v", err)
		}
		if store.calls != 1 {
			t.Errorf("expected a single attempt, got %d", store.calls)
		}
	})
}
