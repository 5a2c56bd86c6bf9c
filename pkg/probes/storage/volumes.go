package storage

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
)

// VolumesProbe reports persistent volume and claim health: anything not in
// phase Bound (or Available, for released pool volumes) is flagged.
type VolumesProbe struct {
	probe.BaseProbe
}

// NewVolumes creates the persistent volume probe.
func NewVolumes() *VolumesProbe {
	return &VolumesProbe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "storage.volumes",
			ProbeName:    "Storage :: Persistent Volumes",
			ProbeSection: probe.SectionStorage,
		},
	}
}

// Run scans PVs and PVCs cluster-wide.
func (p *VolumesProbe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	pvs, err := target.Client.List(ctx, resources.PersistentVolume)
	if err != nil {
		return nil, err
	}

	var flagged []string

	for _, pv := range pvs {
		phase, _, _ := unstructured.NestedString(pv.Object, "status", "phase")

		switch phase {
		case "Bound", "Available":
			continue
		}

		flagged = append(flagged, fmt.Sprintf("pv %s: %s", pv.GetName(), phase))
	}

	pvcs, err := target.Client.List(ctx, resources.PersistentVolumeClaim)
	if err != nil {
		return nil, err
	}

	for _, pvc := range pvcs {
		phase, _, _ := unstructured.NestedString(pvc.Object, "status", "phase")

		if phase == "Bound" {
			continue
		}

		flagged = append(flagged, fmt.Sprintf("pvc %s/%s: %s",
			pvc.GetNamespace(), pvc.GetName(), phase))
	}

	if len(flagged) > 0 {
		return probe.Warningf("%d volumes not bound", len(flagged)).
			WithLines(flagged...), nil
	}

	return probe.Successf("%d persistent volumes and %d claims bound", len(pvs), len(pvcs)), nil
}
