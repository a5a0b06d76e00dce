package cors

import (
	"fmt"
	"net/http"
)

// Verdict classifies the CORS response to one probe.
type Verdict int

const (
	// NotVulnerable means a different, non-empty origin was allowed.
	NotVulnerable Verdict = iota
	// PotentiallyVulnerableEmpty means no Access-Control-Allow-Origin value
	// came back at all.
	PotentiallyVulnerableEmpty
	// PotentiallyVulnerableReflected means the origin was reflected but
	// credentials were not allowed.
	PotentiallyVulnerableReflected
	// Vulnerable means the origin was reflected with credentials allowed.
	Vulnerable
)

var verdictLabels = map[Verdict]string{
	Vulnerable:                     "[Vulnerable]",
	PotentiallyVulnerableReflected: "[Potentially Vulnerable] (Reflected Origin but without credentials)",
	PotentiallyVulnerableEmpty:     "[Potentially Vulnerable] (Access-Control-Allow-Origin header is empty)",
	NotVulnerable:                  "[Not Vulnerable]",
}

var verdictKeys = map[Verdict]string{
	Vulnerable:                     "vulnerable",
	PotentiallyVulnerableReflected: "potentially-vulnerable-reflected",
	PotentiallyVulnerableEmpty:     "potentially-vulnerable-empty",
	NotVulnerable:                  "not-vulnerable",
}

// String returns the report label.
func (v Verdict) String() string {
	if s, ok := verdictLabels[v]; ok {
		return s
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Key returns a short machine-readable name used in JSON, CSV and hooks.
func (v Verdict) Key() string {
	if s, ok := verdictKeys[v]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes v as its Key.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.Key()), nil
}

// IsPotential reports whether v is one of the two potentially vulnerable kinds.
func (v Verdict) IsPotential() bool {
	return v == PotentiallyVulnerableReflected || v == PotentiallyVulnerableEmpty
}

// Classify compares the sent origin with the returned ACAO/ACAC values.
// Comparison is exact: no case folding, no trimming, no URL normalization.
func Classify(sentOrigin, acao, acac string) Verdict {
	switch {
	case acao == sentOrigin && acac == "true":
		return Vulnerable
	case acao == sentOrigin:
		return PotentiallyVulnerableReflected
	case acao == "":
		return PotentiallyVulnerableEmpty
	default:
		return NotVulnerable
	}
}

// Header names the classifier reads.
const (
	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
)

// AllowHeaders extracts ACAO and ACAC from h. Absent headers, and values
// with bytes outside visible ASCII, read as "".
func AllowHeaders(h http.Header) (acao, acac string) {
	return headerText(h.Get(HeaderAllowOrigin)), headerText(h.Get(HeaderAllowCredentials))
}

func headerText(v string) string {
	for i := 0; i < len(v); i++ {
		if c := v[i]; c != '\t' && (c < ' ' || c > '~') {
			return ""
		}
	}
	return v
}
