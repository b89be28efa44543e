package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/webgrep/sitesearch/internal/config"
	"github.com/webgrep/sitesearch/internal/model"
)

// handleStartIndexing launches a full crawl of every configured site.
func (s *Server) handleStartIndexing(w http.ResponseWriter, r *http.Request) {
	ack := s.crawler.StartIndexing(r.Context())
	s.writeJSON(w, ackStatus(ack), ack)
}

// handleStopIndexing aborts the running crawl.
func (s *Server) handleStopIndexing(w http.ResponseWriter, r *http.Request) {
	ack := s.crawler.StopIndexing(r.Context())
	s.writeJSON(w, ackStatus(ack), ack)
}

// handleIndexPage re-indexes the single page named by the url parameter.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		if err := r.ParseForm(); err == nil {
			rawURL = strings.TrimSpace(r.PostFormValue("url"))
		}
	}
	if rawURL == "" {
		s.writeJSON(w, http.StatusBadRequest, model.Fail("missing url parameter"))
		return
	}

	ack := s.crawler.IndexSinglePage(r.Context(), rawURL)
	s.writeJSON(w, ackStatus(ack), ack)
}

// handleSearch answers a search query. Parameters: query (required),
// site (optional root URL filter), offset and limit (pagination).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset := parseIntParam(q.Get("offset"), 0)
	limit := parseIntParam(q.Get("limit"), config.DefaultSearchLimit)

	result := s.search.Search(r.Context(), q.Get("query"), q.Get("site"), offset, limit)
	status := http.StatusOK
	if !result.Result {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, result)
}

// handleStatistics returns the current indexing statistics.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Collect(r.Context())
	if err != nil {
		s.logger.Error("failed to collect statistics", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, model.Fail("failed to collect statistics"))
		return
	}
	s.writeJSON(w, http.StatusOK, model.StatisticsResponse{
		Result:     true,
		Statistics: *report,
	})
}

// ackStatus maps an acknowledgement to its HTTP status code.
func ackStatus(ack model.Ack) int {
	if ack.Result {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

// parseIntParam parses a non-negative integer query parameter, falling
// back to def when absent or malformed.
func parseIntParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
