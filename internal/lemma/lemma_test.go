package lemma

import (
	"strings"
	"testing"
)

// TestCollect tests lemma extraction from running text.
func TestCollect(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()

	t.Run("counts occurrences of the same lemma", func(t *testing.T) {
		t.Parallel()

		got := analyzer.Collect("running runs run")
		if len(got) != 1 {
			t.Fatalf("expected one lemma, got %v", got)
		}
		if got["run"] != 3 {
			t.Errorf("expected run=3, got %v", got)
		}
	})

	t.Run("drops words shorter than the minimum length", func(t *testing.T) {
		t.Parallel()

		got := analyzer.Collect("go is it")
		if len(got) != 0 {
			t.Errorf("expected no lemmas from short words, got %v", got)
		}
	})

	t.Run("drops closed-class words regardless of length", func(t *testing.T) {
		t.Parallel()

		for _, word := range []string{"the", "and", "because", "through", "между", "чтобы", "только"} {
			if got := analyzer.Collect(word); len(got) != 0 {
				t.Errorf("closed-class word %q produced lemmas: %v", word, got)
			}
		}
	})

	t.Run("open-class words index however common", func(t *testing.T) {
		t.Parallel()

		got := analyzer.Collect("people people people")
		if len(got) != 1 {
			t.Fatalf("expected one lemma, got %v", got)
		}
		for _, count := range got {
			if count != 3 {
				t.Errorf("expected count 3, got %d", count)
			}
		}
	})

	t.Run("drops mixed-script words", func(t *testing.T) {
		t.Parallel()

		got := analyzer.Collect("windowsДом")
		if len(got) != 0 {
			t.Errorf("expected mixed-script word to be dropped, got %v", got)
		}
	})

	t.Run("strips digits and punctuation before analysis", func(t *testing.T) {
		t.Parallel()

		got := analyzer.Collect("search-engine, version 2024!")
		if _, ok := got["search"]; !ok {
			t.Errorf("expected lemma search, got %v", got)
		}
		if _, ok := got["engin"]; !ok {
			t.Errorf("expected lemma engin, got %v", got)
		}
		for text := range got {
			if strings.ContainsAny(text, "0123456789") {
				t.Errorf("numeric token leaked into lemmas: %v", got)
			}
		}
	})

	t.Run("handles cyrillic text", func(t *testing.T) {
		t.Parallel()

		got := analyzer.Collect("Поисковые системы индексируют страницы")
		if len(got) == 0 {
			t.Fatal("expected lemmas from cyrillic text")
		}
	})

	t.Run("word order does not change the result", func(t *testing.T) {
		t.Parallel()

		a := analyzer.Collect("quick brown foxes jump over lazy dogs")
		b := analyzer.Collect("dogs lazy over jump foxes brown quick")
		if len(a) != len(b) {
			t.Fatalf("order changed lemma count: %v vs %v", a, b)
		}
		for text, count := range a {
			if b[text] != count {
				t.Errorf("lemma %q: %d vs %d", text, count, b[text])
			}
		}
	})
}

// TestQueryLemmas tests that query analysis agrees with page analysis.
func TestQueryLemmas(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()

	t.Run("matches Collect keys exactly", func(t *testing.T) {
		t.Parallel()

		text := "installation guide for the search engine"
		counts := analyzer.Collect(text)
		set := analyzer.QueryLemmas(text)

		if len(counts) != len(set) {
			t.Fatalf("key sets differ: %v vs %v", counts, set)
		}
		for text := range counts {
			if _, ok := set[text]; !ok {
				t.Errorf("lemma %q missing from query set", text)
			}
		}
	})

	t.Run("stop-word-only query yields empty set", func(t *testing.T) {
		t.Parallel()

		if got := analyzer.QueryLemmas("the and of"); len(got) != 0 {
			t.Errorf("expected empty set, got %v", got)
		}
	})
}

// TestLemmatize tests single-word normalization used by the highlighter.
func TestLemmatize(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()

	t.Run("normalizes case and punctuation", func(t *testing.T) {
		t.Parallel()

		got, ok := analyzer.Lemmatize("Running,")
		if !ok {
			t.Fatal("expected word to lemmatize")
		}
		if got != "run" {
			t.Errorf("expected run, got %q", got)
		}
	})

	t.Run("rejects closed-class words", func(t *testing.T) {
		t.Parallel()

		if _, ok := analyzer.Lemmatize("through"); ok {
			t.Error("expected closed-class word to be rejected")
		}
	})

	t.Run("rejects multi-word input", func(t *testing.T) {
		t.Parallel()

		if _, ok := analyzer.Lemmatize("two words"); ok {
			t.Error("expected multi-word input to be rejected")
		}
	})
}
