// Package report renders analysis reports as text tables, markdown, HTML or JSON.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"hypotest/app"
	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"
)

// Format selects a renderer
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format keyword; "md" is accepted for markdown
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown report format %q", s))
}

// Options tune rendering
type Options struct {
	// NoColor disables ANSI colors in text output.
	NoColor bool
}

// Write renders a plan report
func Write(w io.Writer, r *app.Report, format Format, opts Options) error {
	switch format {
	case FormatText:
		return writeText(w, r, opts)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(r))
		return err
	case FormatJSON:
		return writeJSON(w, r)
	}
	return errors.InvalidInput(fmt.Sprintf("unknown report format %q", format))
}

// WriteSummaries renders descriptive statistics
func WriteSummaries(w io.Writer, summaries []stats.Summary, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summaries)
	case FormatMarkdown, FormatHTML:
		var b strings.Builder
		summaryTable(&b, summaries)
		return writeDocument(w, b.String(), "Summary", format)
	}
	return textSummaries(w, summaries)
}

// WriteCounts renders label counts
func WriteCounts(w io.Writer, column string, counts []dataset.LabelCount, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, counts)
	case FormatMarkdown, FormatHTML:
		var b strings.Builder
		countTable(&b, column, counts)
		return writeDocument(w, b.String(), column, format)
	}
	return textCounts(w, column, counts)
}

func writeDocument(w io.Writer, md, title string, format Format) error {
	if format == FormatHTML {
		_, err := w.Write(renderHTML(md, title))
		return err
	}
	_, err := io.WriteString(w, md)
	return err
}

// formatP prints small p-values in scientific notation
func formatP(p float64) string {
	if p != 0 && p < 1e-4 {
		return fmt.Sprintf("%.3e", p)
	}
	return fmt.Sprintf("%.4f", p)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Sprint(f)
	}
	return fmt.Sprintf("%.4f", f)
}

// formatDF drops the fraction for integral degrees of freedom
func formatDF(df float64) string {
	if df == math.Trunc(df) {
		return fmt.Sprintf("%.0f", df)
	}
	return fmt.Sprintf("%.2f", df)
}

func describeTest(o app.Outcome) string {
	switch o.Kind {
	case stats.KindTwoSampleT, stats.KindOneSampleT:
		if o.Result != nil {
			return fmt.Sprintf("%s (%s) on %s", o.Kind, o.Result.Tail, o.Column)
		}
	case stats.KindOneWayANOVA, stats.KindTukeyHSD, stats.KindOLS:
		return fmt.Sprintf("%s: %s by %s", o.Kind, o.Column, o.Group)
	}
	return fmt.Sprintf("%s on %s", o.Kind, o.Column)
}
