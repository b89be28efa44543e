package config

import (
	"net/url"
	"strings"
)

// Site is one configured site definition: the crawl root URL plus a
// display name shown in search results and statistics.
type Site struct {
	// URL is the root URL of the site, e.g. "https://example.com".
	// Crawling never leaves this URL prefix.
	URL string `yaml:"url"`

	// Name is the human-readable display name.
	Name string `yaml:"name"`
}

// validate checks a single site definition.
func (s Site) validate() error {
	if s.URL == "" || s.Name == "" {
		return ErrIncompleteSite
	}
	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidSiteURL
	}
	return nil
}

// SiteList is the ordered list of configured sites.
type SiteList []Site

// Resolve maps an arbitrary URL to the configured site owning it, using
// longest-prefix match against the configured root URLs. The second
// return value is false when the URL is outside every configured site.
//
// Design decision: Longest-prefix rather than first-match so that nested
// site definitions (e.g. a site rooted at /docs under a broader one)
// resolve deterministically regardless of configuration order.
func (l SiteList) Resolve(rawURL string) (Site, bool) {
	var best Site
	bestLen := -1
	for _, s := range l {
		root := strings.TrimSuffix(s.URL, "/")
		if (rawURL == root || strings.HasPrefix(rawURL, root+"/")) && len(root) > bestLen {
			best = s
			bestLen = len(root)
		}
	}
	return best, bestLen >= 0
}

// PathWithin returns the site-relative path of rawURL under site s.
// The root URL itself maps to "/".
func (s Site) PathWithin(rawURL string) string {
	path := strings.TrimPrefix(rawURL, strings.TrimSuffix(s.URL, "/"))
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// File represents the yaml configuration file structure.
type File struct {
	// Sites is the list of sites to index and search.
	Sites SiteList `yaml:"sites"`

	// Listen optionally overrides the HTTP API listen address.
	Listen string `yaml:"listen,omitempty"`
}
