package cors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sent string
		acao string
		acac string
		want Verdict
	}{
		{"reflected with credentials", "http://evil.com", "http://evil.com", "true", Vulnerable},
		{"reflected without credentials", "http://evil.com", "http://evil.com", "", PotentiallyVulnerableReflected},
		{"reflected, credentials false", "http://evil.com", "http://evil.com", "false", PotentiallyVulnerableReflected},
		{"empty acao", "http://evil.com", "", "", PotentiallyVulnerableEmpty},
		{"empty acao with credentials", "http://evil.com", "", "true", PotentiallyVulnerableEmpty},
		{"other origin", "http://evil.com", "https://trusted.com", "", NotVulnerable},
		{"wildcard", "http://evil.com", "*", "true", NotVulnerable},
		{"case differs", "http://evil.com", "http://EVIL.com", "true", NotVulnerable},
		{"credentials case differs", "http://evil.com", "http://evil.com", "True", PotentiallyVulnerableReflected},
		{"wildcard origin reflected", "*", "*", "", PotentiallyVulnerableReflected},
		{"null reflected", "null", "null", "true", Vulnerable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sent, tt.acao, tt.acac))
		})
	}
}

func TestVerdictLabels(t *testing.T) {
	assert.Equal(t, "[Vulnerable]", Vulnerable.String())
	assert.Equal(t, "[Potentially Vulnerable] (Reflected Origin but without credentials)", PotentiallyVulnerableReflected.String())
	assert.Equal(t, "[Potentially Vulnerable] (Access-Control-Allow-Origin header is empty)", PotentiallyVulnerableEmpty.String())
	assert.Equal(t, "[Not Vulnerable]", NotVulnerable.String())
	assert.Equal(t, "unknown", Verdict(42).Key())

	text, err := Vulnerable.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "vulnerable", string(text))
}

func TestAllowHeaders(t *testing.T) {
	h := http.Header{}
	acao, acac := AllowHeaders(h)
	assert.Empty(t, acao)
	assert.Empty(t, acac)

	h.Set("access-control-allow-origin", "https://a.test")
	h.Set("Access-Control-Allow-Credentials", "true")
	acao, acac = AllowHeaders(h)
	assert.Equal(t, "https://a.test", acao)
	assert.Equal(t, "true", acac)
}

func TestAllowHeadersNonASCII(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderAllowOrigin, "http://bücher.example")
	h.Set(HeaderAllowCredentials, "true")

	acao, acac := AllowHeaders(h)
	assert.Empty(t, acao)
	assert.Equal(t, "true", acac)
	assert.Equal(t, PotentiallyVulnerableEmpty, Classify("http://bücher.example", acao, acac))
}
