// Package indexer turns fetched pages into inverted-index rows.
//
// For every page it extracts the visible text, lemmatizes it, bumps the
// per-site document frequency of each lemma and writes one posting per
// (page, lemma) pair. Multiple pages of one site index concurrently, so
// lemma upserts race by design; detected write contention is retried a
// bounded number of times with randomized backoff before the page is
// given up on. A failed page never fails the crawl.
package indexer

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/webgrep/sitesearch/internal/htmldoc"
	"github.com/webgrep/sitesearch/internal/lemma"
	"github.com/webgrep/sitesearch/internal/model"
	"github.com/webgrep/sitesearch/internal/storage"
)

// Retry policy for contended index writes. Contention windows are
// short (two workers upserting the same lemma rows), so a small budget
// with jitter resolves almost all of them.
const (
	// maxAttempts is the number of tries per page, first attempt included.
	maxAttempts = 3

	// backoffBase is the minimum wait between attempts.
	backoffBase = 50 * time.Millisecond

	// backoffJitter is the maximum random addition to backoffBase.
	backoffJitter = 100 * time.Millisecond
)

// Store is the slice of the storage layer the indexing engine writes
// through.
type Store interface {
	// WriteIndex atomically writes all index rows of one page:
	// per-lemma document frequency increments plus one posting per
	// lemma. A failed call leaves no partial writes behind, which is
	// what makes retrying it safe.
	WriteIndex(ctx context.Context, page *model.Page, lemmas map[string]int) error
}

// Engine is the indexing engine. It is stateless apart from its
// collaborators and safe for concurrent use by crawl workers.
type Engine struct {
	store    Store
	analyzer *lemma.Analyzer
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

// New creates an indexing engine writing through store.
func New(store Store, analyzer *lemma.Analyzer, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		analyzer: analyzer,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// IndexPage indexes the content of an already-stored page.
//
// The page contributes exactly 1 to the document frequency of each
// distinct lemma it contains, and one posting per lemma whose rank is
// the in-page occurrence count. Contention errors are retried up to
// maxAttempts; the final error is returned to the caller, who treats it
// as "page not indexed", not as a run failure.
func (e *Engine) IndexPage(ctx context.Context, page *model.Page, htmlBody string) error {
	doc, err := htmldoc.Parse(page.Path, strings.NewReader(htmlBody))
	if err != nil {
		return err
	}

	lemmas := e.analyzer.Collect(doc.Text)
	if len(lemmas) == 0 {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = e.store.WriteIndex(ctx, page, lemmas)
		if lastErr == nil {
			return nil
		}
		if !storage.IsContention(lastErr) {
			return lastErr
		}

		e.logger.Warn("index write contention, retrying",
			"page", page.Path,
			"attempt", attempt,
			"max_attempts", maxAttempts,
		)

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffBase + rand.N(backoffJitter)):
			}
		}
	}
	return lastErr
}
