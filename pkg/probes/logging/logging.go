package logging

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
)

// Probe inspects the cluster logging stack. Gated on the openshift-logging
// namespace existing, regardless of dialect: the logging operator installs
// into that namespace on vanilla Kubernetes too.
type Probe struct {
	probe.BaseProbe
}

// New creates the logging stack probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "logging.stack",
			ProbeName:    "Logging :: Stack Health",
			ProbeSection: probe.SectionLogging,
		},
	}
}

// CanApply gates the probe on the logging namespace existing.
func (p *Probe) CanApply(ctx context.Context, target probe.Target) (bool, string) {
	if !target.Namespaces.Exists(ctx, capability.NamespaceLogging) {
		return false, fmt.Sprintf("namespace %s not found", capability.NamespaceLogging)
	}

	return true, ""
}

// Run lists logging pods and flags the ones not running.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	pods, err := target.Client.List(ctx, resources.Pod,
		client.InNamespace(capability.NamespaceLogging),
	)
	if err != nil {
		return nil, err
	}

	if len(pods) == 0 {
		return probe.Warningf("namespace %s exists but runs no pods", capability.NamespaceLogging), nil
	}

	var flagged []string

	for _, pod := range pods {
		phase, _, _ := unstructured.NestedString(pod.Object, "status", "phase")

		switch phase {
		case "Running", "Succeeded":
			continue
		}

		flagged = append(flagged, fmt.Sprintf("%s: %s", pod.GetName(), phase))
	}

	if len(flagged) > 0 {
		return probe.Warningf("%d of %d logging pods unhealthy", len(flagged), len(pods)).
			WithLines(flagged...), nil
	}

	return probe.Successf("logging stack healthy (%d pods)", len(pods)), nil
}
