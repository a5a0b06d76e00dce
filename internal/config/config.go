package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maxvaer/corsprobe/internal/cors"
)

// ErrInvalidMethod is returned for any method other than GET or POST.
var ErrInvalidMethod = errors.New("invalid HTTP method, use GET or POST")

// Built-in request headers, overridable by custom headers.
const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	DefaultTimeout   = 10 * time.Second
)

// Options holds all configuration for a corsprobe run.
type Options struct {
	// Target
	URL         string `yaml:"url"`
	RequestFile string `yaml:"request_file"` // raw HTTP request (e.g. Burp export)

	// HTTP
	Method        string        `yaml:"method"`
	CustomHeaders string        `yaml:"custom_headers"` // "Name: value" per line
	Cookie        string        `yaml:"cookie"`
	UserAgent     string        `yaml:"user_agent"`
	Proxy         string        `yaml:"proxy"`
	Timeout       time.Duration `yaml:"timeout"`
	Delay         time.Duration `yaml:"-"` // see fileOptions

	// FollowRedirects reports the CORS headers of the final response.
	FollowRedirects bool `yaml:"follow_redirects"`

	// Test origins
	ThirdParty    string `yaml:"thirdparty"`
	InvalidOrigin string `yaml:"invalid_origin"`

	// Output
	OutputFile     string `yaml:"output"`
	OutputFormat   string `yaml:"format"` // "text", "json", "csv"
	Silent         bool   `yaml:"silent"`
	NoColor        bool   `yaml:"no_color"`
	Verbose        bool   `yaml:"verbose"`
	IncludeStatus  []int  `yaml:"include_status"`
	ExcludeStatus  []int  `yaml:"exclude_status"`
	OnlyVulnerable bool   `yaml:"only_vulnerable"`
	OnResultCmd    string `yaml:"on_result"`
}

// Default returns Options with every default filled in.
func Default() Options {
	return Options{
		Method:          http.MethodGet,
		Timeout:         DefaultTimeout,
		FollowRedirects: true,
		ThirdParty:      cors.DefaultThirdParty,
		InvalidOrigin:   cors.DefaultInvalidOrigin,
		OutputFormat:    "text",
	}
}

// Validate normalizes the method and rejects settings that cannot produce a
// meaningful run.
func (o *Options) Validate() error {
	switch strings.ToUpper(o.Method) {
	case "", http.MethodGet:
		o.Method = http.MethodGet
	case http.MethodPost:
		o.Method = http.MethodPost
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMethod, o.Method)
	}
	switch o.OutputFormat {
	case "", "text", "json", "csv":
	default:
		return fmt.Errorf("--format must be one of: text, json, csv")
	}
	if len(o.IncludeStatus) > 0 && len(o.ExcludeStatus) > 0 {
		return fmt.Errorf("--include-status and --exclude-status are mutually exclusive")
	}
	if o.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// LoadFile reads a YAML options file. Keys missing from the file keep their
// defaults; callers merge the result with flag values.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	f := fileOptions{Options: Default()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	delay, err := parseDelay(&f.Delay)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	f.Options.Delay = delay
	return &f.Options, nil
}

// fileOptions is the YAML layout of Options. delay is either a bare number
// of milliseconds, like -r, or a duration string such as "1.5s".
type fileOptions struct {
	Options `yaml:",inline"`
	Delay   yaml.Node `yaml:"delay"`
}

func parseDelay(n *yaml.Node) (time.Duration, error) {
	if n.Kind == 0 {
		return 0, nil
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!int" {
		var ms int64
		if err := n.Decode(&ms); err != nil {
			return 0, fmt.Errorf("delay: %w", err)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(n.Value)
	if err != nil {
		return 0, fmt.Errorf("delay: %w", err)
	}
	return d, nil
}

// Merge copies non-zero values from file into o, skipping any option whose
// flag was set explicitly. changed reports whether a flag was set.
func (o *Options) Merge(file *Options, changed func(flag string) bool) {
	str := func(flag string, dst *string, src string) {
		if src != "" && !changed(flag) {
			*dst = src
		}
	}
	dur := func(flag string, dst *time.Duration, src time.Duration) {
		if src != 0 && !changed(flag) {
			*dst = src
		}
	}
	flag := func(name string, dst *bool, src bool) {
		if src && !changed(name) {
			*dst = true
		}
	}
	ints := func(name string, dst *[]int, src []int) {
		if len(src) > 0 && !changed(name) {
			*dst = src
		}
	}

	str("url", &o.URL, file.URL)
	str("request-file", &o.RequestFile, file.RequestFile)
	str("method", &o.Method, file.Method)
	str("custom-headers", &o.CustomHeaders, file.CustomHeaders)
	str("cookie", &o.Cookie, file.Cookie)
	str("user-agent", &o.UserAgent, file.UserAgent)
	str("proxy", &o.Proxy, file.Proxy)
	dur("timeout", &o.Timeout, file.Timeout)
	dur("rate-limit", &o.Delay, file.Delay)
	if file.FollowRedirects != o.FollowRedirects && !changed("follow-redirects") {
		o.FollowRedirects = file.FollowRedirects
	}
	str("thirdparty", &o.ThirdParty, file.ThirdParty)
	str("invalid-origin", &o.InvalidOrigin, file.InvalidOrigin)
	str("output", &o.OutputFile, file.OutputFile)
	str("format", &o.OutputFormat, file.OutputFormat)
	flag("silent", &o.Silent, file.Silent)
	flag("no-color", &o.NoColor, file.NoColor)
	flag("verbose", &o.Verbose, file.Verbose)
	ints("include-status", &o.IncludeStatus, file.IncludeStatus)
	ints("exclude-status", &o.ExcludeStatus, file.ExcludeStatus)
	flag("only-vulnerable", &o.OnlyVulnerable, file.OnlyVulnerable)
	str("on-result", &o.OnResultCmd, file.OnResultCmd)
}
