package searcher

import (
	"sort"
	"strings"
)

// Snippet construction limits.
const (
	// minSentenceLength filters out fragments too short to give the
	// reader any context.
	minSentenceLength = 20

	// maxSnippetSentences is how many matching sentences a snippet may
	// stitch together.
	maxSnippetSentences = 3

	// maxSnippetLength is the character budget for the whole snippet.
	maxSnippetLength = 300

	// fallbackLength is how much of the page text is shown when no
	// sentence contains a query lemma.
	fallbackLength = 200
)

// snippet builds the result excerpt: the sentences that mention the
// most query lemmas, best first, with every matching word wrapped in
// <b> tags.
func (e *Engine) snippet(text string, lemmaSet map[string]struct{}) string {
	if text == "" {
		return ""
	}

	type scored struct {
		sentence string
		matches  int
	}

	var candidates []scored
	for _, sentence := range strings.Split(text, ". ") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minSentenceLength {
			continue
		}
		if n := e.countMatches(sentence, lemmaSet); n > 0 {
			candidates = append(candidates, scored{sentence: sentence, matches: n})
		}
	}

	if len(candidates) == 0 {
		if len(text) > fallbackLength {
			return text[:fallbackLength] + "..."
		}
		return text
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].matches > candidates[j].matches
	})
	if len(candidates) > maxSnippetSentences {
		candidates = candidates[:maxSnippetSentences]
	}

	// Whole sentences only: a follow-up sentence that would blow the
	// budget is dropped rather than cut mid-way.
	var b strings.Builder
	for _, c := range candidates {
		if b.Len() > 0 {
			if b.Len()+len(c.sentence) > maxSnippetLength {
				break
			}
			b.WriteString("... ")
		}
		b.WriteString(c.sentence)
		b.WriteString(".")
	}

	return e.highlight(b.String(), lemmaSet)
}

// countMatches counts the words of a sentence whose lemma is in the
// query set.
func (e *Engine) countMatches(sentence string, lemmaSet map[string]struct{}) int {
	n := 0
	for _, word := range strings.Fields(sentence) {
		if e.wordMatches(word, lemmaSet) {
			n++
		}
	}
	return n
}

// highlight wraps every word whose lemma is in the query set in <b>
// tags, preserving the original word forms and punctuation.
func (e *Engine) highlight(snippet string, lemmaSet map[string]struct{}) string {
	words := strings.Fields(snippet)
	for i, word := range words {
		if e.wordMatches(word, lemmaSet) {
			words[i] = "<b>" + word + "</b>"
		}
	}
	return strings.Join(words, " ")
}

// wordMatches reports whether a raw word, punctuation and case
// ignored, lemmatizes to a query lemma.
func (e *Engine) wordMatches(word string, lemmaSet map[string]struct{}) bool {
	l, ok := e.analyzer.Lemmatize(word)
	if !ok {
		return false
	}
	_, ok = lemmaSet[l]
	return ok
}
