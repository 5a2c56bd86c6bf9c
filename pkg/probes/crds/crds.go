package crds

import (
	"context"
	"errors"
	"fmt"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
)

// Probe inventories CustomResourceDefinitions and flags the ones that never
// reached the Established condition.
type Probe struct {
	probe.BaseProbe
}

// New creates the CRD inventory probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "crds.inventory",
			ProbeName:    "Custom Resources :: CRD Inventory",
			ProbeSection: probe.SectionCRDs,
		},
	}
}

// Run lists CRDs through the apiextensions client.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	if target.Client.APIExtensions == nil {
		return nil, errors.New("apiextensions client not available")
	}

	crdList, err := target.Client.APIExtensions.ApiextensionsV1().
		CustomResourceDefinitions().
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	var flagged []string

	for i := range crdList.Items {
		crd := &crdList.Items[i]

		if !isEstablished(crd) {
			flagged = append(flagged, fmt.Sprintf("%s: not established", crd.Name))
		}
	}

	if len(flagged) > 0 {
		return probe.Warningf("%d of %d CRDs not established", len(flagged), len(crdList.Items)).
			WithLines(flagged...), nil
	}

	return probe.Successf("%d CRDs installed, all established", len(crdList.Items)), nil
}

func isEstablished(crd *apiextensionsv1.CustomResourceDefinition) bool {
	for _, cond := range crd.Status.Conditions {
		if cond.Type == apiextensionsv1.Established {
			return cond.Status == apiextensionsv1.ConditionTrue
		}
	}

	return false
}
