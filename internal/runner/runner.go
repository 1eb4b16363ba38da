// Package runner executes check modules concurrently with failure
// isolation: one module's error or timeout never prevents the others from
// reporting.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/waybarutils/waybar-system-health/internal/checks"
	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// Result holds one module's outcome: its findings, or the error that
// stopped it from producing any.
type Result struct {
	Module   string
	Findings []finding.Finding
	Err      error
}

// TimeoutFunc returns the per-module timeout.
type TimeoutFunc func(module string) time.Duration

// Run invokes every module concurrently and collects all results. Each
// module gets its own timeout-bounded context derived from ctx; a module
// that fails or times out contributes exactly one synthetic WARNING
// finding instead of aborting the run, so misconfiguration shows up in
// the status bar rather than as a crash. Results come back in module
// order regardless of completion order.
func Run(ctx context.Context, modules []checks.Module, timeoutFor TimeoutFunc) []Result {
	results := make([]Result, len(modules))

	// A plain group, not WithContext: a failing module must not cancel
	// its siblings.
	var g errgroup.Group
	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			mctx, cancel := context.WithTimeout(ctx, timeoutFor(m.Name()))
			defer cancel()

			findings, err := m.Check(mctx)
			results[i] = Result{Module: m.Name(), Findings: findings, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i := range results {
		if results[i].Err != nil {
			results[i].Findings = []finding.Finding{
				syntheticFailure(results[i].Module, results[i].Err, timeoutFor(results[i].Module)),
			}
		}
	}
	return results
}

// Findings flattens results into one finding list, preserving module
// order.
func Findings(results []Result) []finding.Finding {
	var all []finding.Finding
	for _, r := range results {
		all = append(all, r.Findings...)
	}
	return all
}

// syntheticFailure describes a module that could not run. Always WARNING:
// a broken check is worth telling the operator about, but it is not
// evidence the subsystem itself is unhealthy.
func syntheticFailure(module string, err error, timeout time.Duration) finding.Finding {
	detail := fmt.Sprintf("%s check failed: %v", module, err)
	if errors.Is(err, context.DeadlineExceeded) {
		detail = fmt.Sprintf("%s check timed out after %s", module, timeout)
	}
	return finding.Finding{
		Module:   module,
		Severity: finding.Warning,
		Summary:  module + " check failed",
		Detail:   detail,
	}
}
