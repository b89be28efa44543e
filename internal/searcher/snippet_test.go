package searcher

import (
	"strings"
	"testing"

	"github.com/webgrep/sitesearch/internal/lemma"
)

func snippetEngine() *Engine {
	return New(nil, lemma.NewAnalyzer(), nil)
}

// TestSnippet tests excerpt construction.
func TestSnippet(t *testing.T) {
	t.Parallel()

	engine := snippetEngine()
	lemmas := engine.analyzer.QueryLemmas("lemon")

	t.Run("highlights matched words in their original form", func(t *testing.T) {
		t.Parallel()

		text := "Fresh lemons make the best lemonade for hot summer days."
		got := engine.snippet(text, lemmas)
		if !strings.Contains(got, "<b>lemons</b>") {
			t.Errorf("expected inflected form to be highlighted, got %q", got)
		}
	})

	t.Run("prefers sentences containing query lemmas", func(t *testing.T) {
		t.Parallel()

		text := "Nothing interesting happens in this first sentence at all. " +
			"The lemon grove stretches along the southern hillside. " +
			"Another filler sentence without any relevant words here."
		got := engine.snippet(text, lemmas)
		if !strings.Contains(got, "<b>lemon</b>") {
			t.Errorf("expected the matching sentence, got %q", got)
		}
		if strings.Contains(got, "filler") {
			t.Errorf("expected non-matching sentences to be dropped, got %q", got)
		}
	})

	t.Run("falls back to the text head without matches", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("plain words without the query term here ", 20)
		got := engine.snippet(text, lemmas)
		if !strings.HasSuffix(got, "...") {
			t.Errorf("expected truncated fallback, got %q", got)
		}
		if len(got) > fallbackLength+3 {
			t.Errorf("fallback too long: %d chars", len(got))
		}
	})

	t.Run("orders sentences by match count", func(t *testing.T) {
		t.Parallel()

		text := "A single lemon hangs from the lowest branch of the tree. " +
			"Lemon orchards and lemon groves cover the entire hillside."
		got := engine.snippet(text, lemmas)
		if strings.Index(got, "groves") > strings.Index(got, "hangs") {
			t.Errorf("expected the two-match sentence first, got %q", got)
		}
	})

	t.Run("stops adding sentences once the budget is spent", func(t *testing.T) {
		t.Parallel()

		sentence := "The lemon " + strings.TrimSpace(strings.Repeat("grows ", 22))
		text := sentence + ". " + sentence + ". " + sentence
		got := engine.snippet(text, lemmas)

		// Two whole sentences fit the budget; the third is dropped
		// rather than cut mid-way.
		if n := strings.Count(got, "<b>lemon</b>"); n != 2 {
			t.Errorf("expected 2 sentences in the snippet, found %d matches: %q", n, got)
		}
		plain := strings.ReplaceAll(strings.ReplaceAll(got, "<b>", ""), "</b>", "")
		if len(plain) > maxSnippetLength {
			t.Errorf("snippet over budget: %d chars", len(plain))
		}
	})

	t.Run("empty text yields empty snippet", func(t *testing.T) {
		t.Parallel()

		if got := engine.snippet("", lemmas); got != "" {
			t.Errorf("expected empty snippet, got %q", got)
		}
	})
}
