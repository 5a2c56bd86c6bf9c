package olm

import (
	"context"
	"errors"
	"fmt"

	operatorsv1alpha1 "github.com/operator-framework/api/pkg/operators/v1alpha1"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
)

// Probe reports OLM operator health through ClusterServiceVersion phases.
// Applicable on any dialect, gated on the OLM API group being served.
type Probe struct {
	probe.BaseProbe
}

// New creates the OLM operator probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "operators.olm-csvs",
			ProbeName:    "Operators :: OLM ClusterServiceVersions",
			ProbeSection: probe.SectionOperators,
		},
	}
}

// CanApply gates the probe on the OLM API being served.
func (p *Probe) CanApply(_ context.Context, target probe.Target) (bool, string) {
	rt := resources.ClusterServiceVersion
	if !target.Namespaces.APIResourceExists(rt.APIVersion(), rt.Kind) {
		return false, "OLM is not installed"
	}

	return true, ""
}

// Run lists CSVs across all namespaces and flags those not in phase
// Succeeded.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	if target.Client.OLM == nil {
		return nil, errors.New("OLM client not available")
	}

	csvs, err := target.Client.OLM.OperatorsV1alpha1().
		ClusterServiceVersions(metav1.NamespaceAll).
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	var flagged []string

	for i := range csvs.Items {
		csv := &csvs.Items[i]

		if csv.Status.Phase == operatorsv1alpha1.CSVPhaseSucceeded {
			continue
		}

		flagged = append(flagged, fmt.Sprintf("%s/%s: %s (%s)",
			csv.Namespace, csv.Name, csv.Status.Phase, csv.Status.Reason))
	}

	if len(flagged) > 0 {
		return probe.Warningf("%d of %d OLM operators not in phase Succeeded",
			len(flagged), len(csvs.Items)).
			WithLines(flagged...), nil
	}

	return probe.Successf("all %d OLM operators in phase Succeeded", len(csvs.Items)), nil
}
