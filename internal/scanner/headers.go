package scanner

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/maxvaer/corsprobe/internal/config"
)

var (
	// ErrInvalidHeader marks a custom header line that was skipped.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrInvalidCookie is fatal: probing without the session is pointless.
	ErrInvalidCookie = errors.New("invalid cookie")
)

// ParseCustomHeaders parses a raw "Name: value" block. Lines may be separated
// by real newlines or by the two-character sequence `\n` as typed on a
// shell. Blank lines are ignored. Every malformed line yields an error in
// skipped and is left out of the result; later lines override earlier ones.
func ParseCustomHeaders(raw string) (h http.Header, skipped []error) {
	h = make(http.Header)
	raw = strings.ReplaceAll(raw, `\n`, "\n")
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			skipped = append(skipped, fmt.Errorf("%w: missing ':' in %q", ErrInvalidHeader, line))
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !httpguts.ValidHeaderFieldName(name) {
			skipped = append(skipped, fmt.Errorf("%w: bad name in %q", ErrInvalidHeader, line))
			continue
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			skipped = append(skipped, fmt.Errorf("%w: bad value for %s", ErrInvalidHeader, name))
			continue
		}
		h.Set(name, value)
	}
	return h, skipped
}

// BuildHeaders merges, later wins: built-in defaults, the custom header
// block, then the cookie. The per-strategy Origin is applied on top by the
// Requester. A cookie that is not a valid header value fails the whole run.
func BuildHeaders(opts *config.Options) (h http.Header, skipped []error, err error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	h = http.Header{
		"User-Agent": {ua},
		"Accept":     {config.DefaultAccept},
	}

	if opts.CustomHeaders != "" {
		var custom http.Header
		custom, skipped = ParseCustomHeaders(opts.CustomHeaders)
		for k, v := range custom {
			h[k] = v
		}
	}

	if opts.Cookie != "" {
		if !httpguts.ValidHeaderFieldValue(opts.Cookie) {
			return nil, skipped, fmt.Errorf("%w: cookie contains characters not allowed in a header", ErrInvalidCookie)
		}
		h.Set("Cookie", opts.Cookie)
	}
	return h, skipped, nil
}
