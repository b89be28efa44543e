package model

import "time"

// SiteStatus represents the lifecycle state of a site-run.
// A site moves from StatusIndexing to exactly one of the terminal states.
type SiteStatus string

// Site status values.
//
// Design decision: We use string constants rather than iota integers
// because the status is persisted in the database and returned to API
// clients; a string survives schema evolution and is self-describing in
// both places.
const (
	// StatusIndexing means a crawl of the site is currently in progress.
	StatusIndexing SiteStatus = "INDEXING"

	// StatusIndexed means the last crawl finished (or was stopped by the
	// operator, which is deliberately not treated as a failure).
	StatusIndexed SiteStatus = "INDEXED"

	// StatusFailed means the last crawl aborted on a fatal error.
	// The error text is recorded in Site.LastError.
	StatusFailed SiteStatus = "FAILED"
)

// Site is one configured root URL under indexing.
// A fresh Site row is created each time a crawl run starts for the URL;
// stale data from a previous run is purged first.
type Site struct {
	// ID is the database identifier.
	ID int64

	// URL is the configured root URL, e.g. "https://example.com".
	URL string

	// Name is the human-readable display name from the configuration.
	Name string

	// Status is the current run status.
	Status SiteStatus

	// StatusTime is when Status last changed. It is also refreshed after
	// each indexed page while a run is active, acting as a heartbeat.
	StatusTime time.Time

	// LastError holds the error text of a failed run. Empty otherwise.
	LastError string
}

// Page is a single fetched page of a site.
// (SiteID, Path) is unique; a duplicate insert is a benign no-op for the
// caller.
type Page struct {
	// ID is the database identifier.
	ID int64

	// SiteID references the owning site.
	SiteID int64

	// Path is the site-relative path, always starting with "/".
	Path string

	// Code is the HTTP status code returned when the page was fetched.
	Code int

	// Content is the raw HTML body as fetched.
	Content string
}

// Lemma is a normalized token scoped to one site.
// Frequency counts the number of distinct pages of the site containing
// the lemma at least once (document frequency, not a term total).
type Lemma struct {
	// ID is the database identifier.
	ID int64

	// SiteID references the owning site.
	SiteID int64

	// Lemma is the normalized token text.
	Lemma string

	// Frequency is the number of distinct pages containing the lemma.
	Frequency int
}

// Postings, the page-lemma edges of the inverted index, are written and
// queried in bulk by the storage layer and never materialize as
// individual values: a posting's rank is the occurrence count of the
// lemma within the page at index time and is never updated afterwards.
