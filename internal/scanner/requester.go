package scanner

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/maxvaer/corsprobe/internal/config"
)

// ErrBuildRequest marks a request that could not be assembled for one
// strategy. The run continues with the next strategy.
var ErrBuildRequest = errors.New("building request")

// drainLimit caps how much of a body is read before closing so the
// connection can go back to the pool.
const drainLimit = 64 << 10

// Response holds what the classifier and reporters need from one probe.
type Response struct {
	StatusCode int
	Status     string // e.g. "200 OK"
	Header     http.Header
	Duration   time.Duration
}

// Requester sends one request per bypass origin. The transport and the
// merged base headers are set up once and reused for every strategy.
type Requester struct {
	client  *http.Client
	url     string
	method  string
	headers http.Header
}

// NewRequester builds the client for the run. A bad proxy fails here, before
// any request is sent.
func NewRequester(opts *config.Options, targetURL string, headers http.Header) (*Requester, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: 1,
	}

	if opts.Proxy != "" {
		proxyURL, err := ParseProxyURL(opts.Proxy)
		if err != nil {
			return nil, err
		}
		if err := configureProxy(transport, proxyURL, opts.Timeout); err != nil {
			return nil, err
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	return &Requester{
		client:  client,
		url:     targetURL,
		method:  method,
		headers: headers,
	}, nil
}

// NewRequest assembles the request for one origin. The base headers are
// cloned and Origin always replaces whatever the custom headers carried.
func (r *Requester) NewRequest(ctx context.Context, origin string) (*http.Request, error) {
	if !httpguts.ValidHeaderFieldValue(origin) {
		return nil, fmt.Errorf("%w: origin %q is not a valid header value", ErrBuildRequest, origin)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildRequest, err)
	}
	req.Header = r.headers.Clone()
	if host := req.Header.Get("Host"); host != "" {
		// net/http ignores a Host entry in Header.
		req.Host = host
		req.Header.Del("Host")
	}
	req.Header.Set("Origin", origin)
	return req, nil
}

// Do sends the request for origin and returns the status and headers.
// Transport errors are returned as-is; they are never retried.
func (r *Requester) Do(ctx context.Context, origin string) (*Response, error) {
	req, err := r.NewRequest(ctx, origin)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     statusLine(resp.StatusCode),
		Header:     resp.Header,
		Duration:   time.Since(start),
	}, nil
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
