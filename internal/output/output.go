package output

import (
	"time"

	"github.com/maxvaer/corsprobe/internal/scanner"
)

// Stats holds aggregate run statistics.
type Stats struct {
	Target        string
	Strategies    int
	Probed        int
	Vulnerable    int
	Potential     int
	FilteredCount int
	ErrorCount    int
	Duration      time.Duration
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteResult(result *scanner.ProbeOutcome) error
	WriteFooter(stats Stats) error
	Close() error
}

// Multi fans every call out to all writers, stopping at the first error.
type Multi []Writer

func (m Multi) WriteHeader() error {
	for _, w := range m {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) WriteResult(result *scanner.ProbeOutcome) error {
	for _, w := range m {
		if err := w.WriteResult(result); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) WriteFooter(stats Stats) error {
	for _, w := range m {
		if err := w.WriteFooter(stats); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer and returns the first error.
func (m Multi) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
