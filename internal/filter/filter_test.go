package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxvaer/corsprobe/internal/cors"
	"github.com/maxvaer/corsprobe/internal/scanner"
)

func TestStatusFilter_Include(t *testing.T) {
	f := NewStatusFilter([]int{200, 301}, nil)

	assert.False(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 200}), "200 should pass include filter")
	assert.True(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 404}), "404 should be filtered by include filter")
}

func TestStatusFilter_Exclude(t *testing.T) {
	f := NewStatusFilter(nil, []int{404, 500})

	assert.False(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 200}), "200 should pass exclude filter")
	assert.True(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 404}), "404 should be filtered by exclude filter")
}

func TestVulnerableOnly(t *testing.T) {
	var f VulnerableOnly

	tests := []struct {
		verdict cors.Verdict
		hidden  bool
	}{
		{cors.Vulnerable, false},
		{cors.PotentiallyVulnerableReflected, false},
		{cors.PotentiallyVulnerableEmpty, false},
		{cors.NotVulnerable, true},
	}
	for _, tt := range tests {
		t.Run(tt.verdict.Key(), func(t *testing.T) {
			assert.Equal(t, tt.hidden, f.ShouldFilter(&scanner.ProbeOutcome{Verdict: tt.verdict}))
		})
	}
}

func TestChain(t *testing.T) {
	c := NewChain()
	c.Add(NewStatusFilter(nil, []int{500}))
	c.Add(VulnerableOnly{})

	filtered, reason := c.Apply(&scanner.ProbeOutcome{StatusCode: 500, Verdict: cors.Vulnerable})
	assert.True(t, filtered)
	assert.Equal(t, "status", reason)

	filtered, reason = c.Apply(&scanner.ProbeOutcome{StatusCode: 200, Verdict: cors.NotVulnerable})
	assert.True(t, filtered)
	assert.Equal(t, "verdict", reason)

	filtered, _ = c.Apply(&scanner.ProbeOutcome{StatusCode: 200, Verdict: cors.Vulnerable})
	assert.False(t, filtered)
}

func TestStatusFilter_Empty(t *testing.T) {
	f := NewStatusFilter(nil, nil)

	assert.False(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 200}))
	assert.False(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 500}))
}

func TestStatusFilter_IncludeWins(t *testing.T) {
	f := NewStatusFilter([]int{200}, []int{200})

	assert.False(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 200}))
	assert.True(t, f.ShouldFilter(&scanner.ProbeOutcome{StatusCode: 302}))
}
