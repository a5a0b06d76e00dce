// Package filter decides which probe outcomes reach the report. Every
// strategy is probed regardless; filters only hide outcomes afterwards.
package filter

import "github.com/maxvaer/corsprobe/internal/scanner"

// Filter hides outcomes. Name is what the debug log reports as the reason.
type Filter interface {
	Name() string
	ShouldFilter(result *scanner.ProbeOutcome) bool
}

// Chain is an ordered set of filters. The first filter that hides an
// outcome wins.
type Chain struct {
	filters []Filter
}

func NewChain() *Chain {
	return &Chain{}
}

func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply reports whether result is hidden, and by which filter.
func (c *Chain) Apply(result *scanner.ProbeOutcome) (hidden bool, by string) {
	for _, f := range c.filters {
		if f.ShouldFilter(result) {
			return true, f.Name()
		}
	}
	return false, ""
}
