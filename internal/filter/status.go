package filter

import "github.com/maxvaer/corsprobe/internal/scanner"

// StatusFilter hides outcomes by response status. It works as an allow list
// (--include-status) or a deny list (--exclude-status); the two flags are
// mutually exclusive, and an allow list takes over if both are passed.
type StatusFilter struct {
	codes map[int]bool
	allow bool
}

func NewStatusFilter(include, exclude []int) *StatusFilter {
	codes, allow := exclude, false
	if len(include) > 0 {
		codes, allow = include, true
	}
	f := &StatusFilter{codes: make(map[int]bool, len(codes)), allow: allow}
	for _, c := range codes {
		f.codes[c] = true
	}
	return f
}

func (f *StatusFilter) Name() string { return "status" }

// ShouldFilter hides a status missing from an allow list or present in a
// deny list.
func (f *StatusFilter) ShouldFilter(result *scanner.ProbeOutcome) bool {
	return f.codes[result.StatusCode] != f.allow
}
