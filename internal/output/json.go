package output

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/maxvaer/corsprobe/internal/scanner"
)

type jsonEntry struct {
	Strategy     string      `json:"strategy"`
	Origin       string      `json:"origin"`
	URL          string      `json:"url"`
	Method       string      `json:"method"`
	StatusCode   int         `json:"status"`
	ACAO         string      `json:"access_control_allow_origin"`
	ACAC         string      `json:"access_control_allow_credentials"`
	Verdict      string      `json:"verdict"`
	VerdictLabel string      `json:"verdict_label"`
	Headers      http.Header `json:"headers,omitempty"`
	DurationMs   int64       `json:"duration_ms"`
}

type jsonStats struct {
	Strategies int   `json:"strategies"`
	Probed     int   `json:"probed"`
	Vulnerable int   `json:"vulnerable"`
	Potential  int   `json:"potentially_vulnerable"`
	Filtered   int   `json:"filtered"`
	Errors     int   `json:"errors"`
	DurationMs int64 `json:"duration_ms"`
}

type jsonReport struct {
	ScanID  string      `json:"scan_id"`
	Target  string      `json:"target"`
	Stats   jsonStats   `json:"stats"`
	Results []jsonEntry `json:"results"`
}

// JSONWriter buffers outcomes and writes one JSON report in WriteFooter.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	scanID  string
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &JSONWriter{w: w, closer: closer, scanID: uuid.NewString()}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *scanner.ProbeOutcome) error {
	j.entries = append(j.entries, jsonEntry{
		Strategy:     result.Strategy,
		Origin:       result.Origin,
		URL:          result.URL,
		Method:       result.Method,
		StatusCode:   result.StatusCode,
		ACAO:         result.ACAO,
		ACAC:         result.ACAC,
		Verdict:      result.Verdict.Key(),
		VerdictLabel: result.Verdict.String(),
		Headers:      result.Header,
		DurationMs:   result.Duration.Milliseconds(),
	})
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	report := jsonReport{
		ScanID: j.scanID,
		Target: stats.Target,
		Stats: jsonStats{
			Strategies: stats.Strategies,
			Probed:     stats.Probed,
			Vulnerable: stats.Vulnerable,
			Potential:  stats.Potential,
			Filtered:   stats.FilteredCount,
			Errors:     stats.ErrorCount,
			DurationMs: stats.Duration.Milliseconds(),
		},
		Results: j.entries,
	}
	if report.Results == nil {
		report.Results = []jsonEntry{}
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
