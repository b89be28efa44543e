package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Crawl-related defaults deliberately favor politeness over throughput:
// the crawler's job is a periodic full re-index, not a fast scrape.
const (
	// DefaultFetchTimeout is the per-request timeout for page fetches.
	// 10 seconds matches typical origin response times; slower pages are
	// treated as a recoverable per-page timeout, not a run failure.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultCrawlDelay is the politeness delay inserted before every
	// page fetch. 150ms bounds the request rate per target site without
	// making full crawls impractically slow.
	DefaultCrawlDelay = 150 * time.Millisecond

	// DefaultWorkersPerSite is the width of the per-site crawl worker
	// pool. Two workers bound the load on each target site; several
	// sites still crawl fully in parallel, one pool each.
	DefaultWorkersPerSite = 2

	// DefaultUserAgent is the User-Agent header sent with page fetches.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultReferrer is the Referer header sent with page fetches.
	// Some origins refuse referrer-less requests.
	DefaultReferrer = "http://www.google.com"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is sufficient for any real HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultListenAddr is the HTTP API listen address for the serve
	// command.
	DefaultListenAddr = ":8080"

	// DefaultSearchLimit is the page size applied when a search request
	// does not specify a limit.
	DefaultSearchLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "sitesearch"
)

// Config holds all runtime options for the search engine.
// It is populated from CLI flags and the yaml site list, validated once,
// and passed through the application by dependency injection rather than
// global state.
type Config struct {
	// Sites is the ordered list of configured sites to crawl and search.
	// Loaded from the yaml configuration file.
	Sites SiteList

	// DBDir is the directory holding the SQLite database file.
	// Defaults to the XDG data directory.
	DBDir string

	// FetchTimeout is the timeout applied to each page fetch.
	FetchTimeout time.Duration

	// CrawlDelay is the politeness delay before each page fetch.
	CrawlDelay time.Duration

	// WorkersPerSite is the width of each site's crawl worker pool.
	WorkersPerSite int

	// UserAgent is the User-Agent header for page fetches.
	UserAgent string

	// Referrer is the Referer header for page fetches.
	Referrer string

	// MaxBodySize is the maximum number of response body bytes to read.
	MaxBodySize int64

	// ListenAddr is the HTTP API listen address used by the serve
	// command.
	ListenAddr string

	// Verbose enables slog.LevelDebug output. When false only warnings
	// and errors are logged.
	Verbose bool

	// ConfigFilePath is the explicit path of the yaml configuration
	// file. Empty means the default search order applies.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
// Many defaults are non-zero, so relying on zero values would be wrong;
// the constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		DBDir:          XDGDataDir(),
		FetchTimeout:   DefaultFetchTimeout,
		CrawlDelay:     DefaultCrawlDelay,
		WorkersPerSite: DefaultWorkersPerSite,
		UserAgent:      DefaultUserAgent,
		Referrer:       DefaultReferrer,
		MaxBodySize:    DefaultMaxBodySize,
		ListenAddr:     DefaultListenAddr,
	}
}

// XDGDataDir returns the XDG data directory for the application.
// On Linux: ~/.local/share/sitesearch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// Fixing one error often makes others irrelevant, so we do not collect
// all of them.
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return ErrNoSites
	}
	for _, s := range c.Sites {
		if err := s.validate(); err != nil {
			return err
		}
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.WorkersPerSite <= 0 {
		return ErrInvalidWorkers
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
