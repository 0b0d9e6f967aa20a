package checks

import (
	"context"
	"net"
	"sort"
	"time"

	"github.com/vvka-141/netres/internal/db"
)

// Checker probes a database target. The returned payload becomes Result.Payload.
type Checker interface {
	Check(ctx context.Context, target *db.Target) (any, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, target *db.Target) (any, error)

// Check calls f(ctx, target).
func (f CheckerFunc) Check(ctx context.Context, target *db.Target) (any, error) {
	return f(ctx, target)
}

// CheckerRegistry maps URL schemes to checkers.
//
// Thread Safety:
// Build the registry at startup. Register is not safe to call concurrently
// with Lookup.
type CheckerRegistry struct {
	checkers map[string]Checker
}

// NewCheckerRegistry returns an empty registry.
func NewCheckerRegistry() *CheckerRegistry {
	return &CheckerRegistry{checkers: make(map[string]Checker)}
}

// DefaultCheckers returns a registry with the drivers compiled into netres:
// pgx for postgresql and go-redis for redis/rediss.
func DefaultCheckers() *CheckerRegistry {
	r := NewCheckerRegistry()
	r.Register("postgresql", CheckerFunc(db.PingPostgres))
	r.Register("redis", CheckerFunc(db.PingRedis))
	r.Register("rediss", CheckerFunc(db.PingRedis))
	return r
}

// Register adds or replaces the checker for a scheme.
func (r *CheckerRegistry) Register(scheme string, c Checker) {
	r.checkers[scheme] = c
}

// Lookup returns the checker for a scheme.
func (r *CheckerRegistry) Lookup(scheme string) (Checker, bool) {
	c, ok := r.checkers[scheme]
	return c, ok
}

// Schemes lists registered schemes in sorted order.
func (r *CheckerRegistry) Schemes() []string {
	schemes := make([]string, 0, len(r.checkers))
	for s := range r.checkers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// tcpFallback is used for schemes without a driver.
type tcpFallback struct {
	dialer *net.Dialer
}

func (f tcpFallback) Check(ctx context.Context, target *db.Target) (any, error) {
	start := time.Now()
	conn, err := f.dialer.DialContext(ctx, "tcp", target.Address())
	if err != nil {
		return nil, err
	}
	conn.Close()

	return map[string]any{
		"mode":    "tcp_only",
		"scheme":  target.Scheme,
		"address": target.Address(),
		"latency": time.Since(start).String(),
	}, nil
}
