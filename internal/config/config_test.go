package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("unexpected fetch timeout %v", cfg.FetchTimeout)
	}
	if cfg.CrawlDelay != DefaultCrawlDelay {
		t.Errorf("unexpected crawl delay %v", cfg.CrawlDelay)
	}
	if cfg.WorkersPerSite != DefaultWorkersPerSite {
		t.Errorf("unexpected worker count %d", cfg.WorkersPerSite)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("unexpected listen address %q", cfg.ListenAddr)
	}
	if cfg.DBDir == "" {
		t.Error("expected a default database directory")
	}
}

// TestValidate tests configuration validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Sites = SiteList{{URL: "https://example.com", Name: "Example"}}
		return cfg
	}

	t.Run("valid configuration passes", func(t *testing.T) {
		t.Parallel()
		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty site list fails", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.Sites = nil
		if err := cfg.Validate(); !errors.Is(err, ErrNoSites) {
			t.Errorf("expected ErrNoSites, got %v", err)
		}
	})

	t.Run("site without name fails", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.Sites = SiteList{{URL: "https://example.com"}}
		if err := cfg.Validate(); !errors.Is(err, ErrIncompleteSite) {
			t.Errorf("expected ErrIncompleteSite, got %v", err)
		}
	})

	t.Run("non-http scheme fails", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.Sites = SiteList{{URL: "ftp://example.com", Name: "Example"}}
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidSiteURL) {
			t.Errorf("expected ErrInvalidSiteURL, got %v", err)
		}
	})

	t.Run("zero timeout fails", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.FetchTimeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative crawl delay fails", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.CrawlDelay = -time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidCrawlDelay) {
			t.Errorf("expected ErrInvalidCrawlDelay, got %v", err)
		}
	})

	t.Run("zero workers fails", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.WorkersPerSite = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})
}

// TestSiteListResolve tests URL-to-site resolution.
func TestSiteListResolve(t *testing.T) {
	t.Parallel()

	sites := SiteList{
		{URL: "https://example.com", Name: "Broad"},
		{URL: "https://example.com/docs", Name: "Docs"},
	}

	tests := []struct {
		name     string
		url      string
		wantName string
		wantOK   bool
	}{
		{"root url", "https://example.com", "Broad", true},
		{"inner page", "https://example.com/blog/post", "Broad", true},
		{"longest prefix wins", "https://example.com/docs/intro", "Docs", true},
		{"nested root itself", "https://example.com/docs", "Docs", true},
		{"outside all sites", "https://other.example/", "", false},
		{"prefix trick", "https://example.community/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			site, ok := sites.Resolve(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if ok && site.Name != tt.wantName {
				t.Errorf("Resolve(%q) = %q, want %q", tt.url, site.Name, tt.wantName)
			}
		})
	}
}

// TestPathWithin tests site-relative path extraction.
func TestPathWithin(t *testing.T) {
	t.Parallel()

	site := Site{URL: "https://example.com", Name: "Example"}

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", "/"},
		{"https://example.com/", "/"},
		{"https://example.com/a/b", "/a/b"},
	}
	for _, tt := range tests {
		if got := site.PathWithin(tt.url); got != tt.want {
			t.Errorf("PathWithin(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

// TestLoadConfigFile tests yaml loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("parses sites and listen address", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `listen: ":3000"
sites:
  - url: https://example.com
    name: Example
  - url: https://docs.example.com
    name: Docs
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		file, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if len(file.Sites) != 2 {
			t.Fatalf("expected 2 sites, got %d", len(file.Sites))
		}
		if file.Sites[0].URL != "https://example.com" || file.Sites[0].Name != "Example" {
			t.Errorf("unexpected first site: %+v", file.Sites[0])
		}
		if file.Listen != ":3000" {
			t.Errorf("unexpected listen address %q", file.Listen)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [:::"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: []"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
