package stats

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/webgrep/sitesearch/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Mermaid chart embedding
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report as Markdown.
func (w *MarkdownWriter) Write(report *model.Statistics) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeSummary(md, report)
	w.writeSites(md, report)
	w.writePageChart(md, report)

	return len(md.String()), md.Build()
}

// writeSummary writes the cross-site totals.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Statistics) {
	md.H1("Index Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Sites", strconv.Itoa(report.Total.Sites)},
			{"Pages", strconv.Itoa(report.Total.Pages)},
			{"Lemmas", strconv.Itoa(report.Total.Lemmas)},
			{"Indexing in progress", strconv.FormatBool(report.Total.Indexing)},
		},
	})
	md.PlainText("")
}

// writeSites writes the per-site detail table.
func (w *MarkdownWriter) writeSites(md *markdown.Markdown, report *model.Statistics) {
	if len(report.Detailed) == 0 {
		return
	}

	md.H2("Sites")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Detailed))
	for _, site := range report.Detailed {
		errText := site.Error
		if errText == "" {
			errText = "-"
		}
		rows = append(rows, []string{
			site.Name,
			"`" + site.URL + "`",
			site.Status,
			time.UnixMilli(site.StatusTime).Format("2006-01-02 15:04:05"),
			strconv.Itoa(site.Pages),
			strconv.Itoa(site.Lemmas),
			errText,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "URL", "Status", "Since", "Pages", "Lemmas", "Last Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePageChart embeds a mermaid pie chart of the page distribution
// across sites. Skipped when there is nothing to chart.
func (w *MarkdownWriter) writePageChart(md *markdown.Markdown, report *model.Statistics) {
	if report.Total.Pages == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Site"),
		piechart.WithShowData(true),
	)
	for _, site := range report.Detailed {
		if site.Pages > 0 {
			chart.LabelAndIntValue(site.Name, uint64(site.Pages))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
