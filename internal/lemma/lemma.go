package lemma

import (
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// MinTokenLength is the minimum word length (in runes) that is indexed.
// Shorter words carry almost no search value and bloat the index.
// Hardcoded in the ranking model; not meant to be externally tunable.
const MinTokenLength = 3

// Snowball algorithm names for the two supported scripts.
const (
	languageRussian = "russian"
	languageEnglish = "english"
)

// Analyzer converts text to lemmas. It is stateless and safe for
// concurrent use; a single instance is shared by the indexing and search
// engines.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Collect returns the lemma multiset of text: every indexable word
// mapped to its occurrence count across the whole input.
func (a *Analyzer) Collect(text string) map[string]int {
	lemmas := make(map[string]int)
	for _, word := range splitWords(text) {
		if l, ok := a.lemmatize(word); ok {
			lemmas[l]++
		}
	}
	return lemmas
}

// QueryLemmas returns the lemma set of a query: Collect collapsed to
// membership. Every key of Collect(text) is a member of
// QueryLemmas(text) and vice versa.
func (a *Analyzer) QueryLemmas(text string) map[string]struct{} {
	lemmas := make(map[string]struct{})
	for _, word := range splitWords(text) {
		if l, ok := a.lemmatize(word); ok {
			lemmas[l] = struct{}{}
		}
	}
	return lemmas
}

// Lemmatize normalizes a single word. The second return value is false
// when the word is not indexable (too short, closed-class, mixed-script
// or non-alphabetic). Used by the snippet highlighter to match displayed
// words against query lemmas.
func (a *Analyzer) Lemmatize(word string) (string, bool) {
	words := splitWords(word)
	if len(words) != 1 {
		return "", false
	}
	return a.lemmatize(words[0])
}

// lemmatize maps one already-normalized word to its lemma.
func (a *Analyzer) lemmatize(word string) (string, bool) {
	if utf8.RuneCountInString(word) < MinTokenLength {
		return "", false
	}

	cyrillic, latin := scripts(word)
	var language string
	var closedClass map[string]struct{}
	switch {
	case cyrillic && latin:
		// Mixed-script words are never indexed.
		return "", false
	case cyrillic:
		language = languageRussian
		closedClass = russianClosedClass
	case latin:
		language = languageEnglish
		closedClass = englishClosedClass
	default:
		return "", false
	}

	if _, stop := closedClass[word]; stop {
		return "", false
	}

	// A word the stemmer cannot process is skipped; the rest of the
	// text is still analyzed.
	stemmed, err := snowball.Stem(word, language, false)
	if err != nil || stemmed == "" {
		return "", false
	}
	return stemmed, true
}

// splitWords lower-cases text, strips everything except Cyrillic/Latin
// letters and whitespace, and splits on whitespace.
func splitWords(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'а' && r <= 'я', r == 'ё':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// scripts reports whether the word contains Cyrillic and/or Latin
// letters. Words passed here are already reduced to letters only.
func scripts(word string) (cyrillic, latin bool) {
	for _, r := range word {
		switch {
		case r >= 'а' && r <= 'я' || r == 'ё':
			cyrillic = true
		case r >= 'a' && r <= 'z':
			latin = true
		}
	}
	return cyrillic, latin
}
