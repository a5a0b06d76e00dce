// Package cors holds the bypass origin table and the verdict classifier for
// CORS misconfiguration probing.
package cors

// Default values for the two externally supplied test origins.
const (
	DefaultThirdParty    = "http://example-thirdparty.com"
	DefaultInvalidOrigin = "http://example-invalid-origin.com"
)

// Strategy is one crafted Origin value and the name of the bypass it tests.
type Strategy struct {
	Name   string
	Origin string
}

// Inputs are the values origins are derived from.
type Inputs struct {
	URL           string // decoded target URL
	Host          string
	ThirdParty    string
	InvalidOrigin string
}

type generator struct {
	name   string
	origin func(in Inputs) string
}

// generators is the ordered bypass table. Duplicate origins (Regexp bypass /
// Advanced Regexp bypass / Post-domain Bypass, Breaking TLS / HTTP Allowance
// Test) are kept so output lines up with existing reports.
//
// TODO: "Reflected Origin" sends the whole target URL rather than its
// scheme://host origin; switch once downstream reports no longer depend on it.
var generators = []generator{
	{"Reflected Origin", func(in Inputs) string { return in.URL }},
	{"Trusted Subdomains", func(in Inputs) string { return "http://subdomain." + in.Host }},
	{"Regexp bypass", func(in Inputs) string { return "http://" + in.Host + ".attacker.com" }},
	{"Null Origin", func(Inputs) string { return "null" }},
	{"Breaking TLS", func(in Inputs) string { return "http://" + in.Host }},
	{"Advanced Regexp bypass", func(in Inputs) string { return "http://" + in.Host + ".attacker.com" }},
	{"Pre-domain Bypass", func(in Inputs) string { return "http://attacker.com." + in.Host }},
	{"Post-domain Bypass", func(in Inputs) string { return "http://" + in.Host + ".attacker.com" }},
	{"Backtick Bypass", func(in Inputs) string { return "http://`" + in.Host + "`" }},
	{"Unescaped Dot Bypass", func(in Inputs) string { return "http://" + in.Host + ".com" }},
	{"Underscore Bypass", func(in Inputs) string { return "http://" + in.Host + "_com" }},
	{"Invalid Value", func(in Inputs) string { return in.InvalidOrigin }},
	{"Wildcard Value", func(Inputs) string { return "*" }},
	{"Third-party Allowance Test", func(in Inputs) string { return in.ThirdParty }},
	{"HTTP Allowance Test", func(in Inputs) string { return "http://" + in.Host }},
}

// Strategies returns the bypass strategies for in, always in the same order.
func Strategies(in Inputs) []Strategy {
	out := make([]Strategy, len(generators))
	for i, g := range generators {
		out[i] = Strategy{Name: g.name, Origin: g.origin(in)}
	}
	return out
}

// Count is the number of strategies Strategies returns.
func Count() int { return len(generators) }
