package probe

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/lburgazzoli/kube-triage/pkg/util/client"
	"github.com/lburgazzoli/kube-triage/pkg/util/iostreams"
)

// Execution bundles a probe with its resolved outcome and any underlying
// error. Exactly one Execution exists per catalog entry per run.
type Execution struct {
	Probe   Probe
	Outcome *Outcome
	Error   error

	// Skipped is set when gating, not the probe action, produced the
	// outcome.
	Skipped bool
}

// Runner executes probes with failure isolation: whatever a probe does, the
// runner resolves it to a three-state Outcome and the battery moves on.
type Runner struct {
	io iostreams.Interface
}

// NewRunner creates a runner. The streams are used for verbose progress only.
func NewRunner(io iostreams.Interface) *Runner {
	return &Runner{io: io}
}

// ExecuteAll runs every catalog probe strictly sequentially, in catalog
// order, and returns one Execution per entry. Context cancellation stops
// probe actions; entries not yet run are still recorded, as Failures, so the
// report always carries the full catalog.
func (r *Runner) ExecuteAll(ctx context.Context, target Target, catalog *Catalog) []Execution {
	probes := catalog.List()
	executions := make([]Execution, 0, len(probes))

	for _, p := range probes {
		if err := ctx.Err(); err != nil {
			executions = append(executions, Execution{
				Probe:   p,
				Outcome: Failuref("not run: %v", err),
				Error:   err,
			})

			continue
		}

		executions = append(executions, r.Execute(ctx, target, p))
	}

	return executions
}

// Execute runs a single probe: gating first, then the action, with every
// error and panic folded into the outcome.
func (r *Runner) Execute(ctx context.Context, target Target, p Probe) Execution {
	if target.IO == nil {
		target.IO = r.io
	}

	applies, reason := p.CanApply(ctx, target)
	if !applies {
		if reason == "" {
			reason = "not applicable to this cluster"
		}

		return Execution{
			Probe:   p,
			Outcome: Warningf("skipped: %s", reason),
			Skipped: true,
		}
	}

	if r.io != nil {
		r.io.Errorf("running probe %s", p.ID())
	}

	outcome, err := r.runIsolated(ctx, target, p)

	switch {
	case err != nil:
		return Execution{
			Probe:   p,
			Outcome: resolveError(p, err),
			Error:   err,
		}
	case outcome == nil:
		return Execution{
			Probe:   p,
			Outcome: Failuref("probe %s returned no outcome", p.ID()),
		}
	}

	if err := outcome.Validate(); err != nil {
		return Execution{
			Probe:   p,
			Outcome: Failuref("invalid outcome from probe %s: %v", p.ID(), err),
			Error:   fmt.Errorf("invalid outcome from probe %s: %w", p.ID(), err),
		}
	}

	return Execution{
		Probe:   p,
		Outcome: outcome,
	}
}

// runIsolated invokes the probe action, converting panics into errors so a
// misbehaving probe cannot abort the battery.
func (r *Runner) runIsolated(ctx context.Context, target Target, p Probe) (outcome *Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = nil
			err = fmt.Errorf("probe %s panicked: %v", p.ID(), rec)
		}
	}()

	return p.Run(ctx, target)
}

// resolveError maps an error escaping a probe to an outcome. Missing or
// denied APIs degrade to Warning; anything else is a Failure.
func resolveError(p Probe, err error) *Outcome {
	switch {
	case client.IsSoftError(err):
		return Warningf("%v", err)
	case apierrors.IsTimeout(err) || apierrors.IsServerTimeout(err):
		return Failuref("request timed out: %v", err)
	case apierrors.IsServiceUnavailable(err):
		return Failuref("API server unavailable: %v", err)
	default:
		return Failuref("probe %s failed: %v", p.ID(), err)
	}
}
