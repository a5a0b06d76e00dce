package reqparse

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ParsedRequest holds the extracted data from a raw HTTP request file.
type ParsedRequest struct {
	Method  string
	URL     string // full URL reconstructed from Host + request target
	Cookie  string
	Headers []string // remaining headers as "Name: value" lines, in file order
}

// skipHeaders are dropped because the probe sets them itself or they would
// corrupt a body-less replay.
var skipHeaders = map[string]bool{
	"host":            true,
	"cookie":          true,
	"origin":          true,
	"content-length":  true,
	"accept-encoding": true,
	"connection":      true,
}

// ParseFile reads a raw HTTP request (e.g. Burp Suite export) and extracts
// the target URL, method, cookie and headers.
func ParseFile(path string) (*ParsedRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening request file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB lines for large cookies

	// Parse request line: GET /path HTTP/1.1
	if !scanner.Scan() {
		return nil, fmt.Errorf("request file is empty")
	}
	requestLine := strings.TrimSpace(scanner.Text())
	parts := strings.SplitN(requestLine, " ", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid request line: %q", requestLine)
	}
	req := &ParsedRequest{Method: strings.ToUpper(parts[0])}
	requestTarget := parts[1]

	var host string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break // end of headers
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch strings.ToLower(key) {
		case "host":
			host = value
		case "cookie":
			req.Cookie = value
		}
		if skipHeaders[strings.ToLower(key)] {
			continue
		}
		req.Headers = append(req.Headers, key+": "+value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	// Absolute-form request target (proxy style) carries the full URL.
	if strings.HasPrefix(requestTarget, "http://") || strings.HasPrefix(requestTarget, "https://") {
		if _, err := url.Parse(requestTarget); err != nil {
			return nil, fmt.Errorf("invalid URL in request line: %w", err)
		}
		req.URL = requestTarget
		return req, nil
	}

	if host == "" {
		return nil, fmt.Errorf("request file missing Host header")
	}

	// Burp exports do not record the scheme. Default to https unless port
	// 80 is explicit.
	scheme := "https"
	if strings.HasSuffix(host, ":80") {
		scheme = "http"
	}
	if !strings.HasPrefix(requestTarget, "/") {
		requestTarget = "/" + requestTarget
	}
	req.URL = scheme + "://" + host + requestTarget
	return req, nil
}

// HeaderBlock joins the headers into the "Name: value" per line form used
// for custom headers.
func (p *ParsedRequest) HeaderBlock() string {
	return strings.Join(p.Headers, "\n")
}
