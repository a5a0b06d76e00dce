package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/maxvaer/corsprobe/internal/config"
	"github.com/maxvaer/corsprobe/internal/cors"
	"github.com/maxvaer/corsprobe/internal/filter"
	"github.com/maxvaer/corsprobe/internal/hook"
	"github.com/maxvaer/corsprobe/internal/output"
	"github.com/maxvaer/corsprobe/internal/scanner"
	"github.com/maxvaer/corsprobe/pkg/version"
)

// Run executes the full pipeline for one target: setup checks, the probe
// loop, and reporting to the console, the output file and the hook.
func Run(ctx context.Context, opts *config.Options, log logrus.FieldLogger) error {
	// 1. Fatal checks and transport setup. Nothing is sent on failure.
	plan, err := Prepare(opts, log)
	if err != nil {
		return err
	}

	// 2. Create output writers.
	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	if err := out.WriteHeader(); err != nil {
		return err
	}

	// 3. Print banner.
	if !opts.Silent {
		colored := !opts.NoColor && term.IsTerminal(int(os.Stderr.Fd()))
		printBanner(os.Stderr, opts, plan, colored)
	}

	// 4. Build filter chain and hook runner.
	chain := filter.NewChain()
	if len(opts.IncludeStatus) > 0 || len(opts.ExcludeStatus) > 0 {
		chain.Add(filter.NewStatusFilter(opts.IncludeStatus, opts.ExcludeStatus))
	}
	if opts.OnlyVulnerable {
		chain.Add(filter.VulnerableOnly{})
	}

	var hookRunner *hook.Runner
	if opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(opts.OnResultCmd, log)
	}

	// 5. Probe every strategy.
	stats := output.Stats{
		Target:     plan.Target.URL,
		Strategies: len(plan.Strategies),
	}
	res, err := plan.Execute(ctx, func(o *scanner.ProbeOutcome) error {
		stats.Probed++
		switch {
		case o.Verdict == cors.Vulnerable:
			stats.Vulnerable++
		case o.Verdict.IsPotential():
			stats.Potential++
		}

		if filtered, reason := chain.Apply(o); filtered {
			stats.FilteredCount++
			log.WithField("filter", reason).Debugf("hiding %s", o.Strategy)
			return nil
		}
		if err := out.WriteResult(o); err != nil {
			return err
		}
		if hookRunner != nil {
			hookRunner.Run(ctx, o)
		}
		return nil
	})
	if res != nil {
		stats.ErrorCount = res.Errors
		stats.Duration = res.Duration
	}
	if err != nil {
		return err
	}

	// 6. Write footer.
	return out.WriteFooter(stats)
}

// createWriter always reports to the console in text form; -o adds a file
// in the chosen format.
func createWriter(opts *config.Options) (output.Writer, error) {
	console, err := output.NewTextWriter("", opts.NoColor)
	if err != nil {
		return nil, err
	}
	if opts.OutputFile == "" {
		return console, nil
	}

	var file output.Writer
	switch opts.OutputFormat {
	case "json":
		file, err = output.NewJSONWriter(opts.OutputFile)
	case "csv":
		file, err = output.NewCSVWriter(opts.OutputFile)
	default:
		file, err = output.NewTextWriter(opts.OutputFile, true)
	}
	if err != nil {
		return nil, err
	}
	return output.Multi{console, file}, nil
}

func printBanner(w io.Writer, opts *config.Options, plan *Plan, colored bool) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	white := color.New(color.FgHiWhite)
	yellow := color.New(color.FgYellow)
	for _, c := range []*color.Color{cyan, dim, white, yellow} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	fmt.Fprintln(w)
	cyan.Fprint(w, "  corsprobe ")
	dim.Fprintln(w, displayVersion(version.Version))
	white.Fprintln(w, "  CORS Misconfiguration Finder")

	line := "  ──────────────────────────────────────"
	dim.Fprintln(w, line)
	row := func(label string, value any) {
		dim.Fprintf(w, "  %-14s", label+":")
		white.Fprintf(w, "%v\n", value)
	}
	row("Target", plan.Target.URL)
	row("Host", plan.Target.Host)
	row("Method", plan.method)
	row("Strategies", len(plan.Strategies))
	if opts.Proxy != "" {
		row("Proxy", opts.Proxy)
	}
	if opts.Delay > 0 {
		yellow.Fprintf(w, "  %-14s%s\n", "Delay:", opts.Delay.Round(time.Millisecond))
	}
	dim.Fprintln(w, line)
	fmt.Fprintln(w)
}

func displayVersion(ver string) string {
	if ver != "dev" && ver != "" && ver[0] != 'v' {
		return "v" + ver
	}
	return ver
}
