package filter

import (
	"github.com/maxvaer/corsprobe/internal/cors"
	"github.com/maxvaer/corsprobe/internal/scanner"
)

// VulnerableOnly hides outcomes classified as not vulnerable.
type VulnerableOnly struct{}

func (VulnerableOnly) Name() string { return "verdict" }

func (VulnerableOnly) ShouldFilter(result *scanner.ProbeOutcome) bool {
	return result.Verdict == cors.NotVulnerable
}
