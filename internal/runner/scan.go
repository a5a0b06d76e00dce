package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maxvaer/corsprobe/internal/config"
	"github.com/maxvaer/corsprobe/internal/cors"
	"github.com/maxvaer/corsprobe/internal/scanner"
	"github.com/maxvaer/corsprobe/internal/target"
)

// Reporter receives each outcome as soon as it is classified, in strategy
// order. Returning an error aborts the run.
type Reporter func(outcome *scanner.ProbeOutcome) error

// Plan is a validated run: every fatal check has passed and the transport
// is ready. Nothing has been sent yet.
type Plan struct {
	Target     *target.Target
	Strategies []cors.Strategy

	method    string
	delay     time.Duration
	requester *scanner.Requester
	log       logrus.FieldLogger
}

// Result is the ordered sequence of outcomes of one run. Strategies that
// failed to build or send are counted in Errors and have no outcome.
type Result struct {
	Outcomes []scanner.ProbeOutcome
	Errors   int
	Duration time.Duration
}

// Prepare runs every fatal check in order: method, target URL, cookie,
// proxy/transport. Malformed custom header lines are logged and skipped.
func Prepare(opts *config.Options, log logrus.FieldLogger) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tgt, err := target.Parse(opts.URL)
	if err != nil {
		return nil, err
	}

	headers, skipped, err := scanner.BuildHeaders(opts)
	for _, e := range skipped {
		log.WithError(e).Warn("skipping custom header")
	}
	if err != nil {
		return nil, err
	}

	req, err := scanner.NewRequester(opts, tgt.URL, headers)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Target: tgt,
		Strategies: cors.Strategies(cors.Inputs{
			URL:           tgt.URL,
			Host:          tgt.Host,
			ThirdParty:    opts.ThirdParty,
			InvalidOrigin: opts.InvalidOrigin,
		}),
		method:    opts.Method,
		delay:     opts.Delay,
		requester: req,
		log:       log,
	}, nil
}

// Execute probes every strategy one at a time, in order. Per-strategy
// failures are logged and skipped; finding a vulnerability never stops the
// loop. The configured delay separates consecutive probes.
func (p *Plan) Execute(ctx context.Context, report Reporter) (*Result, error) {
	start := time.Now()
	res := &Result{Outcomes: make([]scanner.ProbeOutcome, 0, len(p.Strategies))}

	for i, s := range p.Strategies {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}

		outcome, err := p.probe(ctx, s)
		if err != nil {
			res.Errors++
			p.log.WithFields(logrus.Fields{
				"strategy": s.Name,
				"origin":   s.Origin,
			}).WithError(err).Warn("probe failed, skipping")
		} else {
			res.Outcomes = append(res.Outcomes, *outcome)
			if report != nil {
				if err := report(outcome); err != nil {
					res.Duration = time.Since(start)
					return res, fmt.Errorf("reporting %s: %w", s.Name, err)
				}
			}
		}

		if p.delay > 0 && i < len(p.Strategies)-1 {
			select {
			case <-time.After(p.delay):
			case <-ctx.Done():
			}
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (p *Plan) probe(ctx context.Context, s cors.Strategy) (*scanner.ProbeOutcome, error) {
	p.log.WithField("origin", s.Origin).Debugf("probing %s", s.Name)

	resp, err := p.requester.Do(ctx, s.Origin)
	if err != nil {
		return nil, err
	}

	acao, acac := cors.AllowHeaders(resp.Header)
	return &scanner.ProbeOutcome{
		Strategy:   s.Name,
		Origin:     s.Origin,
		URL:        p.Target.URL,
		Method:     p.method,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		ACAO:       acao,
		ACAC:       acac,
		Verdict:    cors.Classify(s.Origin, acao, acac),
		Duration:   resp.Duration,
	}, nil
}

// Scan is Prepare followed by Execute. A fatal setup error returns before
// any request is sent and before report is ever called.
func Scan(ctx context.Context, opts *config.Options, log logrus.FieldLogger, report Reporter) (*Result, error) {
	plan, err := Prepare(opts, log)
	if err != nil {
		return nil, err
	}
	return plan.Execute(ctx, report)
}
