package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maxvaer/corsprobe/internal/scanner"
)

// resultJSON is the JSON payload sent to the hook command via stdin.
type resultJSON struct {
	Strategy   string `json:"strategy"`
	Origin     string `json:"origin"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	StatusCode int    `json:"status"`
	ACAO       string `json:"access_control_allow_origin"`
	ACAC       string `json:"access_control_allow_credentials"`
	Verdict    string `json:"verdict"`
}

// Runner executes a shell command for each reported probe outcome.
type Runner struct {
	cmd     string
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, log logrus.FieldLogger) *Runner {
	return &Runner{cmd: cmd, log: log, timeout: 30 * time.Second}
}

// Run executes the hook command with the outcome as JSON on stdin.
// Placeholders are substituted shell-quoted, since bypass origins contain
// backticks and other metacharacters. The command is killed when ctx ends
// or after the hook timeout. Errors are logged but do not halt the scan.
func (r *Runner) Run(ctx context.Context, result *scanner.ProbeOutcome) {
	payload := resultJSON{
		Strategy:   result.Strategy,
		Origin:     result.Origin,
		Method:     result.Method,
		URL:        result.URL,
		StatusCode: result.StatusCode,
		ACAO:       result.ACAO,
		ACAC:       result.ACAC,
		Verdict:    result.Verdict.Key(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		r.log.WithError(err).Warn("hook: marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.Expand(result))...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr
	// Children of the shell may keep stdout open after it is killed.
	cmd.WaitDelay = time.Second

	output, err := cmd.Output()
	if err != nil {
		r.log.WithError(err).WithField("strategy", result.Strategy).Warn("hook failed")
		return
	}

	if len(output) > 0 {
		r.log.Infof("[hook] %s", strings.TrimRight(string(output), "\n"))
	}
}

// Expand replaces {url}, {origin}, {strategy}, {status}, {verdict} and
// {method} in the command.
func (r *Runner) Expand(result *scanner.ProbeOutcome) string {
	return strings.NewReplacer(
		"{url}", shellQuote(result.URL),
		"{origin}", shellQuote(result.Origin),
		"{strategy}", shellQuote(result.Strategy),
		"{status}", strconv.Itoa(result.StatusCode),
		"{verdict}", result.Verdict.Key(),
		"{method}", result.Method,
	).Replace(r.cmd)
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}

func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
