// Package fetcher retrieves documents over HTTP for the crawler.
//
// Non-2xx responses are data, not errors: the status code is part of
// what gets indexed about a page. Only transport-level problems (TLS
// handshake failures, timeouts, unsupported content types, connection
// errors) are returned as a typed *TransportError so the crawler can
// classify and skip them per page.
package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"
)

// FailureKind classifies a transport failure.
type FailureKind int

// Transport failure kinds. All of them are expected during a crawl of
// the open web and are recoverable per page.
const (
	// FailureGeneric covers connection and protocol errors with no more
	// specific classification.
	FailureGeneric FailureKind = iota

	// FailureTLS marks TLS handshake or certificate verification errors.
	FailureTLS

	// FailureTimeout marks requests that exceeded the fetch timeout.
	FailureTimeout

	// FailureUnsupportedContent marks responses whose Content-Type is
	// not an HTML document.
	FailureUnsupportedContent
)

// TransportError is a typed fetch failure.
type TransportError struct {
	// Kind classifies the failure.
	Kind FailureKind

	// URL is the URL that failed to fetch.
	URL string

	// Err is the underlying error, nil for content-type rejections.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	switch e.Kind {
	case FailureTLS:
		return fmt.Sprintf("tls failure fetching %s: %v", e.URL, e.Err)
	case FailureTimeout:
		return fmt.Sprintf("timeout fetching %s: %v", e.URL, e.Err)
	case FailureUnsupportedContent:
		return fmt.Sprintf("unsupported content type at %s", e.URL)
	default:
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// Document is a fetched page: the HTTP status code plus the raw body.
type Document struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is the response body as text.
	Body string
}

// Fetcher performs HTTP GET requests with fixed headers and a body size
// limit. It is safe for concurrent use by multiple crawl workers.
type Fetcher struct {
	// client is the HTTP client; its Timeout bounds each fetch.
	client *http.Client

	// userAgent is the User-Agent header value.
	userAgent string

	// referrer is the Referer header value.
	referrer string

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithReferrer sets a custom Referer header.
func WithReferrer(ref string) Option {
	return func(f *Fetcher) {
		f.referrer = ref
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// New creates a Fetcher with the given per-request timeout.
func New(timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: timeout},
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		referrer:    "http://www.google.com",
		maxBodySize: 5 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the document at pageURL. HTTP error statuses are
// returned as a Document; the error return is always a *TransportError
// when non-nil.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &TransportError{Kind: FailureGeneric, URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Referer", f.referrer)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: classify(err), URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if !isHTMLContentType(resp.Header.Get("Content-Type")) {
		return nil, &TransportError{Kind: FailureUnsupportedContent, URL: pageURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &TransportError{Kind: classify(err), URL: pageURL, Err: err}
	}

	return &Document{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

// classify maps a transport error to its failure kind.
func classify(err error) FailureKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var recordErr tls.RecordHeaderError
	var certErr x509.CertificateInvalidError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	if errors.As(err, &recordErr) || errors.As(err, &certErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &hostErr) ||
		strings.Contains(err.Error(), "tls:") {
		return FailureTLS
	}

	return FailureGeneric
}

// isHTMLContentType reports whether a Content-Type header denotes an
// HTML document. An absent header is given the benefit of the doubt;
// the HTML parser tolerates arbitrary text anyway.
func isHTMLContentType(header string) bool {
	if header == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	default:
		return false
	}
}
