package model

// Ack is the acknowledgement returned by start/stop/index-page
// operations. On failure Result is false and Error carries a
// human-readable message; these operations never return a Go error past
// the public boundary.
type Ack struct {
	// Result reports whether the operation was accepted.
	Result bool `json:"result"`

	// Error is the human-readable failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// OK returns a successful acknowledgement.
func OK() Ack {
	return Ack{Result: true}
}

// Fail returns a failed acknowledgement with the given message.
func Fail(msg string) Ack {
	return Ack{Result: false, Error: msg}
}

// SearchItem is one ranked search hit.
type SearchItem struct {
	// Site is the root URL of the site the page belongs to.
	Site string `json:"site"`

	// SiteName is the configured display name of the site.
	SiteName string `json:"siteName"`

	// URI is the site-relative path of the page.
	URI string `json:"uri"`

	// Title is the page title, or a fixed placeholder for untitled pages.
	Title string `json:"title"`

	// Snippet is a highlighted text fragment; matched words are wrapped
	// in <b> tags.
	Snippet string `json:"snippet"`

	// Relevance is the normalized score in (0, 1]; the best hit of a
	// result set is always exactly 1.0.
	Relevance float64 `json:"relevance"`
}

// SearchResult is the full response to a search query.
//
// A stop-word-only query is a successful result with Count == 0, while a
// malformed query (e.g. blank) sets Result to false with an Error. An
// offset past the end keeps the true Count but returns no Data, so
// callers can distinguish "past the end" from "no results".
type SearchResult struct {
	// Result reports whether the query was valid and executed.
	Result bool `json:"result"`

	// Count is the total number of hits before pagination.
	Count int `json:"count"`

	// Data is the paginated slice of hits.
	Data []SearchItem `json:"data,omitempty"`

	// Error is the human-readable failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// TotalStatistics aggregates counters across all sites.
type TotalStatistics struct {
	// Sites is the number of known sites.
	Sites int `json:"sites"`

	// Pages is the number of stored pages across all sites.
	Pages int `json:"pages"`

	// Lemmas is the number of lemma rows across all sites.
	Lemmas int `json:"lemmas"`

	// Indexing is true while any site is in StatusIndexing.
	Indexing bool `json:"indexing"`
}

// SiteStatistics is the per-site detail of a statistics report.
type SiteStatistics struct {
	// URL is the site root URL.
	URL string `json:"url"`

	// Name is the configured display name.
	Name string `json:"name"`

	// Status is the current run status as a string.
	Status string `json:"status"`

	// StatusTime is the status timestamp in Unix milliseconds, matching
	// the wire format of the original statistics endpoint.
	StatusTime int64 `json:"statusTime"`

	// Error is the last error text, empty when the site is healthy.
	Error string `json:"error"`

	// Pages is the number of stored pages for the site.
	Pages int `json:"pages"`

	// Lemmas is the number of lemma rows for the site.
	Lemmas int `json:"lemmas"`
}

// Statistics is the complete statistics report.
type Statistics struct {
	// Total holds cross-site aggregates.
	Total TotalStatistics `json:"total"`

	// Detailed holds one entry per known site.
	Detailed []SiteStatistics `json:"detailed"`
}

// StatisticsResponse wraps Statistics in the API envelope.
type StatisticsResponse struct {
	// Result is true when the report was produced.
	Result bool `json:"result"`

	// Statistics is the report payload.
	Statistics Statistics `json:"statistics"`
}
