package checks

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/netres/internal/db"
	"github.com/vvka-141/netres/pkg/netres"
)

// Kind selects the check a Target runs.
type Kind string

const (
	KindHTTP     Kind = "http"
	KindTCP      Kind = "tcp"
	KindDatabase Kind = "database"
)

// Target describes one configured check.
type Target struct {
	Name string
	Kind Kind

	// URL is used by http and database checks.
	URL    string
	Method string

	// Host and Port are used by tcp checks.
	Host string
	Port int

	AllowDegradation bool
}

// DisplayName returns Name, or a name derived from the target with any
// password masked.
func (t Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	switch t.Kind {
	case KindTCP:
		return fmt.Sprintf("tcp %s:%d", t.Host, t.Port)
	case KindDatabase:
		if target, err := db.Parse(t.URL); err == nil {
			return fmt.Sprintf("%s %s", t.Kind, target.Redacted())
		}
	}
	return fmt.Sprintf("%s %s", t.Kind, redactURL(t.URL))
}

// Outcome pairs a target with its result.
type Outcome struct {
	Target Target
	Result netres.Result
}

// Run executes a single target.
func (s *Service) Run(ctx context.Context, t Target) netres.Result {
	switch t.Kind {
	case KindHTTP:
		return s.HTTPRequest(ctx, t.Method, t.URL, nil, t.AllowDegradation)
	case KindTCP:
		return s.TCPCheck(ctx, t.Host, t.Port)
	case KindDatabase:
		return s.databaseCheck(ctx, t.URL, t.AllowDegradation)
	default:
		return netres.Result{Error: fmt.Sprintf("unknown check kind %q", t.Kind)}
	}
}

// RunAll runs targets concurrently and returns outcomes in input order.
func (s *Service) RunAll(ctx context.Context, targets []Target) []Outcome {
	outcomes := make([]Outcome, len(targets))

	var g errgroup.Group
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	for i, t := range targets {
		g.Go(func() error {
			outcomes[i] = Outcome{Target: t, Result: s.Run(ctx, t)}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Failed reports the outcomes that did not succeed. Degraded results count
// as successful.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.Result.Success {
			failed = append(failed, o)
		}
	}
	return failed
}
