package operators

import (
	"context"
	"fmt"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/probes/shared/conditions"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
)

// Probe reports ClusterOperator availability and degradation. OpenShift only:
// the config.openshift.io API does not exist on vanilla Kubernetes, so the
// probe is gated off there without a remote call.
type Probe struct {
	probe.BaseProbe
}

// New creates the cluster operator probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "operators.cluster-operators",
			ProbeName:    "Operators :: Cluster Operators",
			ProbeSection: probe.SectionOperators,
		},
	}
}

// CanApply gates the probe to OpenShift clusters.
func (p *Probe) CanApply(_ context.Context, target probe.Target) (bool, string) {
	if target.Dialect != capability.DialectOpenShift {
		return false, "cluster operators require OpenShift"
	}

	return true, ""
}

// Run lists cluster operators and flags unavailable or degraded ones.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	operators, err := target.Client.List(ctx, resources.ClusterOperator)
	if err != nil {
		return nil, err
	}

	var flagged []string

	for _, op := range operators {
		available := conditions.IsTrue(op, "Available")
		degraded := conditions.IsTrue(op, "Degraded")

		if available && !degraded {
			continue
		}

		state := "unavailable"
		if degraded {
			state = "degraded"
		}

		flagged = append(flagged, fmt.Sprintf("%s: %s", op.GetName(), state))
	}

	if len(flagged) > 0 {
		return probe.Warningf("%d of %d cluster operators unhealthy", len(flagged), len(operators)).
			WithLines(flagged...), nil
	}

	return probe.Successf("all %d cluster operators available", len(operators)).
		WithLines(fmt.Sprintf("operators checked: %d", len(operators))), nil
}
