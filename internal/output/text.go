package output

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/maxvaer/corsprobe/internal/cors"
	"github.com/maxvaer/corsprobe/internal/scanner"
)

// CompletionLine ends every text report file.
const CompletionLine = "Vulnerability Check Complete"

// TextWriter writes the human-readable report. On the console verdict lines
// are colored by severity; in a file they are plain and the report ends with
// CompletionLine.
type TextWriter struct {
	w       io.Writer
	closer  io.Closer
	summary io.Writer // footer destination on the console; nil for files
	red     *color.Color
	yellow  *color.Color
	green   *color.Color
}

// NewTextWriter creates a text output writer. If outputFile is empty, stdout
// is used and colors are on unless noColor is set or stdout is not a
// terminal.
func NewTextWriter(outputFile string, noColor bool) (*TextWriter, error) {
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		return newTextWriter(f, f, nil, false), nil
	}
	colored := !noColor && term.IsTerminal(int(os.Stdout.Fd()))
	return newTextWriter(os.Stdout, nil, os.Stderr, colored), nil
}

func newTextWriter(w io.Writer, closer io.Closer, summary io.Writer, colored bool) *TextWriter {
	t := &TextWriter{
		w:       w,
		closer:  closer,
		summary: summary,
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
		green:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{t.red, t.yellow, t.green} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

func (t *TextWriter) WriteHeader() error { return nil }

func (t *TextWriter) WriteResult(result *scanner.ProbeOutcome) error {
	_, err := fmt.Fprintf(t.w,
		"Testing with Origin: %s\nResponse Status Code: %s\nResponse Headers: %s\nAccess-Control-Allow-Origin: %s\nAccess-Control-Allow-Credentials: %s\n",
		result.Origin, result.Status, FormatHeaders(result.Header), result.ACAO, result.ACAC)
	if err != nil {
		return err
	}
	_, err = t.colorFor(result.Verdict).Fprintln(t.w, VerdictLine(result))
	return err
}

func (t *TextWriter) WriteFooter(stats Stats) error {
	if t.summary == nil {
		_, err := fmt.Fprintln(t.w, CompletionLine)
		return err
	}
	_, err := fmt.Fprintf(t.summary,
		"\nCompleted: %d/%d strategies | Vulnerable: %d | Potentially vulnerable: %d | Filtered: %d | Errors: %d | Duration: %s\n",
		stats.Probed,
		stats.Strategies,
		stats.Vulnerable,
		stats.Potential,
		stats.FilteredCount,
		stats.ErrorCount,
		stats.Duration.Round(time.Millisecond),
	)
	return err
}

func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

func (t *TextWriter) colorFor(v cors.Verdict) *color.Color {
	switch {
	case v == cors.Vulnerable:
		return t.red
	case v.IsPotential():
		return t.yellow
	default:
		return t.green
	}
}

// VerdictLine renders the verdict summary for one outcome.
func VerdictLine(r *scanner.ProbeOutcome) string {
	return fmt.Sprintf("%s %s %s: %s (Status: %s)\nAccess-Control-Allow-Origin: %s\nAccess-Control-Allow-Credentials: %s",
		r.Verdict, r.Strategy, r.Origin, r.URL, r.Status, r.ACAO, r.ACAC)
}

// FormatHeaders renders h as {"name": "value", ...} with lower-case names in
// sorted order, one pair per value.
func FormatHeaders(h http.Header) string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var pairs []string
	for _, name := range names {
		for _, v := range h[name] {
			pairs = append(pairs, fmt.Sprintf("%q: %q", strings.ToLower(name), v))
		}
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
