package scanner

import (
	"net/http"
	"time"

	"github.com/maxvaer/corsprobe/internal/cors"
)

// ProbeOutcome holds the result of probing one bypass strategy.
type ProbeOutcome struct {
	Strategy   string
	Origin     string
	URL        string
	Method     string
	StatusCode int
	Status     string
	Header     http.Header
	ACAO       string
	ACAC       string
	Verdict    cors.Verdict
	Duration   time.Duration
}
