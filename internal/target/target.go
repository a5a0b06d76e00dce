// Package target normalizes the scan target URL and extracts the host that
// bypass origins are derived from.
package target

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// ErrInvalidTarget is returned when the target cannot be parsed as an
// absolute URL or carries no host.
var ErrInvalidTarget = errors.New("invalid target")

// Target is the decoded target URL and its host. It is created once per run
// and never modified.
type Target struct {
	URL  string // percent-decoded URL, sent as-is
	Host string // host without scheme or port; IPv6 literals keep brackets, IDN hosts are punycode
}

// Parse percent-decodes raw and parses it as an absolute URL.
func Parse(raw string) (*Target, error) {
	decoded := strings.ToValidUTF8(decodePercent(raw), "\uFFFD")

	u, err := url.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidTarget, decoded)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrInvalidTarget, decoded)
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	} else if !isASCII(host) {
		// Browsers only send ASCII origins, so IDN hosts are compared in
		// punycode form.
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("%w: host %q: %v", ErrInvalidTarget, host, err)
		}
		host = ascii
	}

	return &Target{URL: decoded, Host: host}, nil
}

// decodePercent replaces every well-formed %XX escape with its byte and
// leaves malformed escapes untouched. Unlike url.PathUnescape it never fails
// and does not treat '+' specially.
func decodePercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
