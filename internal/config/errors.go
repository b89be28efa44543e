package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic handling while still providing
// human-readable messages.
var (
	// ErrNoSites is returned when the configuration defines no sites.
	// Without at least one site there is nothing to crawl or search.
	ErrNoSites = errors.New("no sites configured: define at least one site in the configuration file")

	// ErrIncompleteSite is returned when a site definition is missing
	// its URL or display name.
	ErrIncompleteSite = errors.New("incomplete site definition: both url and name are required")

	// ErrInvalidSiteURL is returned when a configured site URL is not an
	// absolute http(s) URL.
	ErrInvalidSiteURL = errors.New("invalid site url: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidWorkers is returned when the per-site worker count is
	// not positive.
	ErrInvalidWorkers = errors.New("invalid workers per site: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
