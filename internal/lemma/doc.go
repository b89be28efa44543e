// Package lemma turns raw text into normalized search tokens.
//
// The analyzer lower-cases the input, strips everything except Cyrillic
// and Latin letters, and routes each surviving word to the Snowball
// stemmer for its script (russian or english). Closed-class words
// (prepositions, conjunctions, particles, interjections, articles) are
// discarded, as are words shorter than MinTokenLength and mixed-script
// or non-alphabetic words.
//
// All operations are deterministic and side-effect-free: permuting the
// words of the input never changes the resulting multiset.
package lemma
