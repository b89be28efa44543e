package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/webgrep/sitesearch/internal/model"
)

// TextWriter outputs human-readable text reports for terminal display.
type TextWriter struct {
	baseWriter

	// verbose enables per-site error details in the output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the report as plain text.
func (w *TextWriter) Write(report *model.Statistics) (int, error) {
	var b strings.Builder

	b.WriteString("Index Statistics\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&b, "Sites:  %d\n", report.Total.Sites)
	fmt.Fprintf(&b, "Pages:  %d\n", report.Total.Pages)
	fmt.Fprintf(&b, "Lemmas: %d\n", report.Total.Lemmas)
	fmt.Fprintf(&b, "Indexing in progress: %t\n\n", report.Total.Indexing)

	for _, site := range report.Detailed {
		fmt.Fprintf(&b, "%s (%s)\n", site.Name, site.URL)
		fmt.Fprintf(&b, "  Status: %s since %s\n",
			site.Status,
			time.UnixMilli(site.StatusTime).Format("2006-01-02 15:04:05"),
		)
		fmt.Fprintf(&b, "  Pages: %d  Lemmas: %d\n", site.Pages, site.Lemmas)
		if w.verbose && site.Error != "" {
			fmt.Fprintf(&b, "  Last error: %s\n", site.Error)
		}
		b.WriteString("\n")
	}

	return io.WriteString(w.output, b.String())
}
