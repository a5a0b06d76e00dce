package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/corsprobe/internal/config"
	"github.com/maxvaer/corsprobe/internal/logging"
	"github.com/maxvaer/corsprobe/internal/reqparse"
	"github.com/maxvaer/corsprobe/internal/runner"
	"github.com/maxvaer/corsprobe/pkg/version"
)

var (
	opts        = config.Default()
	rateLimitMs uint64
	headerLines []string
	configFile  string
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "request-file"}},
	{"HTTP", []string{"method", "custom-headers", "header", "cookie", "user-agent", "proxy", "timeout", "follow-redirects"}},
	{"RATE-LIMIT", []string{"rate-limit"}},
	{"TEST ORIGINS", []string{"thirdparty", "invalid-origin"}},
	{"FILTERS", []string{"include-status", "exclude-status", "only-vulnerable"}},
	{"OUTPUT", []string{"output", "format", "silent", "no-color", "verbose", "on-result"}},
	{"CONFIGURATION", []string{"config"}},
}

var rootCmd = &cobra.Command{
	Use:     "corsprobe <url> [flags]",
	Short:   "Detect CORS misconfigurations with crafted Origin headers",
	Version: version.Version,
	Long: `corsprobe sends one request per bypass strategy to a single target, each
with a crafted Origin header, and classifies the Access-Control-Allow-Origin
and Access-Control-Allow-Credentials headers that come back.`,
	Example: `  corsprobe https://example.com/api/user
  corsprobe https://example.com -k 'session=abc123' -m POST
  corsprobe https://example.com -c 'Authorization: Bearer x\nX-Api-Key: y'
  corsprobe https://example.com -p socks5://127.0.0.1:1080 -r 500
  corsprobe https://example.com -o report.json --format json
  corsprobe --request-file burp.req --only-vulnerable
  corsprobe https://example.com --on-result "notify-send {strategy} {verdict}"`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("rate-limit") {
			opts.Delay = time.Duration(rateLimitMs) * time.Millisecond
		}
		if len(args) == 1 {
			if cmd.Flags().Changed("url") {
				return fmt.Errorf("target given both as argument and with --url")
			}
			opts.URL = args[0]
		}
		changed := func(name string) bool {
			if name == "url" && len(args) == 1 {
				return true
			}
			return cmd.Flags().Changed(name)
		}

		// Options file: explicit flags take precedence.
		if configFile != "" {
			fileOpts, err := config.LoadFile(configFile)
			if err != nil {
				return err
			}
			opts.Merge(fileOpts, changed)
		}

		// Raw HTTP request file (e.g. Burp export).
		if opts.RequestFile != "" {
			parsed, err := reqparse.ParseFile(opts.RequestFile)
			if err != nil {
				return fmt.Errorf("parsing request file: %w", err)
			}
			if opts.URL == "" {
				opts.URL = parsed.URL
			}
			if !changed("method") && (parsed.Method == http.MethodGet || parsed.Method == http.MethodPost) {
				opts.Method = parsed.Method
			}
			if opts.Cookie == "" {
				opts.Cookie = parsed.Cookie
			}
			// Request headers first so custom headers override them.
			opts.CustomHeaders = joinLines(parsed.HeaderBlock(), opts.CustomHeaders)
		}

		opts.CustomHeaders = joinLines(append([]string{opts.CustomHeaders}, headerLines...)...)

		if opts.URL == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: pass a URL, -u or --request-file")
		}
		return opts.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		log := logging.New(opts.Verbose, opts.NoColor)
		return runner.Run(ctx, &opts, log)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target URL (may also be given as the first argument)")
	f.StringVar(&opts.RequestFile, "request-file", "", "Raw HTTP request file (e.g. Burp Suite export)")

	// HTTP
	f.StringVarP(&opts.Method, "method", "m", opts.Method, "HTTP method: GET or POST")
	f.StringVarP(&opts.CustomHeaders, "custom-headers", "c", "", `Custom headers block ("Name: value" lines, \n separated)`)
	f.StringArrayVarP(&headerLines, "header", "H", nil, "Custom header (Name: Value), repeatable; commas stay in the value")
	f.StringVarP(&opts.Cookie, "cookie", "k", "", "Cookie to include in the requests")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")
	f.StringVarP(&opts.Proxy, "proxy", "p", "", "Proxy URL (http, https, socks5, socks5h)")
	f.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "HTTP request timeout")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", opts.FollowRedirects, "Follow redirects and classify the final response")

	// Rate limit
	f.Uint64VarP(&rateLimitMs, "rate-limit", "r", 0, "Delay between requests in milliseconds")

	// Test origins
	f.StringVar(&opts.ThirdParty, "thirdparty", opts.ThirdParty, "Third-party domain to test")
	f.StringVar(&opts.InvalidOrigin, "invalid-origin", opts.InvalidOrigin, "Invalid origin to test")

	// Filtering
	f.Var(&intSliceValue{target: &opts.IncludeStatus}, "include-status", "Only report these status codes (comma-separated)")
	f.Var(&intSliceValue{target: &opts.ExcludeStatus}, "exclude-status", "Hide these status codes (comma-separated)")
	f.BoolVar(&opts.OnlyVulnerable, "only-vulnerable", false, "Hide strategies classified as not vulnerable")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file to save the results")
	f.StringVar(&opts.OutputFormat, "format", opts.OutputFormat, "Output file format: text, json, csv")
	f.BoolVarP(&opts.Silent, "silent", "s", false, "Silent mode, suppresses the banner")
	f.BoolVarP(&opts.NoColor, "no-color", "n", false, "Disable colored output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")

	// Hooks
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each reported result (receives JSON on stdin)")

	// Configuration
	f.StringVar(&configFile, "config", "", "YAML file with default options")

	// Custom help: categorized flags.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprintf(w, "corsprobe %s\n\n", cmd.Version)
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func joinLines(parts ...string) string {
	var lines []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			lines = append(lines, p)
		}
	}
	return strings.Join(lines, "\n")
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	parts := strings.Split(s, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}
