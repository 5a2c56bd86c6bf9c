package nodes

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/probes/shared/conditions"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
)

const metricsNodesPath = "/apis/metrics.k8s.io/v1beta1/nodes"

// pressureConditions are the node conditions that flag resource exhaustion
// when true.
//
//nolint:gochecknoglobals
var pressureConditions = []string{"MemoryPressure", "DiskPressure", "PIDPressure"}

// Probe reports node readiness, pressure conditions, and (best effort) node
// utilization from the metrics API.
type Probe struct {
	probe.BaseProbe
}

// New creates the node health probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "nodes.health",
			ProbeName:    "Nodes :: Health",
			ProbeSection: probe.SectionNodes,
		},
	}
}

// Run lists nodes and classifies their conditions.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	nodes, err := target.Client.List(ctx, resources.Node)
	if err != nil {
		return nil, err
	}

	var lines []string
	var unhealthy []string

	for _, node := range nodes {
		flags := describeNode(node)

		lines = append(lines, fmt.Sprintf("%s: %s", node.GetName(), flags))

		if flags != "Ready" {
			unhealthy = append(unhealthy, node.GetName())
		}
	}

	// Node utilization is optional: metrics-server is not a given.
	if _, err := target.Client.Raw(ctx, metricsNodesPath); err != nil {
		lines = append(lines, "node metrics unavailable (metrics API not served)")
	} else {
		lines = append(lines, "node metrics API available")
	}

	if len(unhealthy) > 0 {
		return probe.Warningf("%d/%d nodes not ready: %s",
			len(unhealthy), len(nodes), strings.Join(unhealthy, ", ")).
			WithLines(lines...), nil
	}

	return probe.Successf("%d/%d nodes ready", len(nodes), len(nodes)).
		WithLines(lines...), nil
}

// describeNode summarizes a node's readiness and pressure flags.
func describeNode(node *unstructured.Unstructured) string {
	if !conditions.IsTrue(node, "Ready") {
		return "NotReady"
	}

	var flags []string

	for _, cond := range pressureConditions {
		if conditions.IsTrue(node, cond) {
			flags = append(flags, cond)
		}
	}

	if len(flags) > 0 {
		return "Ready (" + strings.Join(flags, ", ") + ")"
	}

	return "Ready"
}
