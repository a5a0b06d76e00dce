// Package logging sets up the diagnostic logger. Diagnostics always go to
// stderr so stdout carries only the report.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr. verbose enables debug output.
func New(verbose, noColor bool) *logrus.Logger {
	return NewWithWriter(os.Stderr, verbose, noColor)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, verbose, noColor bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    noColor,
	})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything, for tests and library use.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
