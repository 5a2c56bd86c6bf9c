package workloads

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
)

// Probe reports workload health: deployments below their desired replica
// count and pods outside the Running/Succeeded phases, across all
// namespaces.
type Probe struct {
	probe.BaseProbe
}

// New creates the workload health probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "workloads.health",
			ProbeName:    "Workloads :: Deployments & Pods",
			ProbeSection: probe.SectionWorkloads,
		},
	}
}

// Run scans deployments and pods cluster-wide.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	deployments, err := target.Client.List(ctx, resources.Deployment)
	if err != nil {
		return nil, err
	}

	var flagged []string

	for _, deploy := range deployments {
		desired, _, _ := unstructured.NestedInt64(deploy.Object, "spec", "replicas")
		ready, _, _ := unstructured.NestedInt64(deploy.Object, "status", "readyReplicas")

		if ready < desired {
			flagged = append(flagged, fmt.Sprintf("deployment %s/%s: %d/%d replicas ready",
				deploy.GetNamespace(), deploy.GetName(), ready, desired))
		}
	}

	pods, err := target.Client.List(ctx, resources.Pod)
	if err != nil {
		return nil, err
	}

	unhealthyPods := 0

	for _, pod := range pods {
		phase, _, _ := unstructured.NestedString(pod.Object, "status", "phase")

		switch phase {
		case "Running", "Succeeded":
			continue
		}

		unhealthyPods++

		flagged = append(flagged, fmt.Sprintf("pod %s/%s: %s",
			pod.GetNamespace(), pod.GetName(), phase))
	}

	if len(flagged) > 0 {
		return probe.Warningf("workload issues found (%d)", len(flagged)).
			WithLines(flagged...), nil
	}

	return probe.Successf("%d deployments and %d pods healthy", len(deployments), len(pods)), nil
}
