package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
)

const (
	toolboxLabelSelector = "app=rook-ceph-tools"
	toolboxContainer     = "rook-ceph-tools"
)

// CephProbe reports the health of an ODF/Rook ceph cluster. OpenShift only,
// and only when the openshift-storage namespace exists.
//
// Fallback chain: exec `ceph status` in the toolbox pod when one is running;
// otherwise read the CephCluster resource status; when both are unavailable
// the probe resolves to a Warning, because the storage stack being absent is
// normal on most clusters.
type CephProbe struct {
	probe.BaseProbe
}

// NewCeph creates the ceph storage probe.
func NewCeph() *CephProbe {
	return &CephProbe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "storage.ceph",
			ProbeName:    "Storage :: Ceph (ODF)",
			ProbeSection: probe.SectionStorage,
		},
	}
}

// CanApply gates the probe to OpenShift clusters with the storage namespace.
func (p *CephProbe) CanApply(ctx context.Context, target probe.Target) (bool, string) {
	if target.Dialect != capability.DialectOpenShift {
		return false, "ODF storage requires OpenShift"
	}

	if !target.Namespaces.Exists(ctx, capability.NamespaceStorage) {
		return false, fmt.Sprintf("namespace %s not found", capability.NamespaceStorage)
	}

	return true, ""
}

// Run walks the toolbox-then-resource fallback chain.
func (p *CephProbe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	status, err := p.fromToolbox(ctx, target)
	if err == nil {
		return probe.Success(strings.Split(strings.TrimSpace(status), "\n")...), nil
	}

	if target.IO != nil {
		target.IO.Errorf("ceph toolbox unavailable, falling back to CephCluster resource: %v", err)
	}

	health, err := p.fromResource(ctx, target)
	if err != nil {
		return probe.Warningf("ceph health unavailable: no toolbox pod and no readable CephCluster resource"), nil
	}

	return probe.Successf("ceph health (from CephCluster resource): %s", health).
		AsDegraded("toolbox pod not found, health read from resource status"), nil
}

// fromToolbox locates a running toolbox pod and execs `ceph status` in it.
func (p *CephProbe) fromToolbox(ctx context.Context, target probe.Target) (string, error) {
	if target.Client.Executor == nil {
		return "", errors.New("pod exec not available")
	}

	pods, err := target.Client.List(ctx, resources.Pod,
		client.InNamespace(capability.NamespaceStorage),
		client.WithLabelSelector(toolboxLabelSelector),
	)
	if err != nil {
		return "", err
	}

	var toolbox *unstructured.Unstructured

	for _, pod := range pods {
		phase, _, _ := unstructured.NestedString(pod.Object, "status", "phase")
		if phase == "Running" {
			toolbox = pod

			break
		}
	}

	if toolbox == nil {
		return "", errors.New("no running toolbox pod")
	}

	return target.Client.Executor.Exec(ctx,
		capability.NamespaceStorage, toolbox.GetName(), toolboxContainer,
		"ceph", "status",
	)
}

// fromResource reads ceph health from the CephCluster status.
func (p *CephProbe) fromResource(ctx context.Context, target probe.Target) (string, error) {
	clusters, err := target.Client.List(ctx, resources.CephCluster,
		client.InNamespace(capability.NamespaceStorage),
	)
	if err != nil {
		return "", err
	}

	if len(clusters) == 0 {
		return "", errors.New("no CephCluster resources found")
	}

	health, found, _ := unstructured.NestedString(clusters[0].Object, "status", "ceph", "health")
	if !found || health == "" {
		return "", errors.New("CephCluster status carries no health")
	}

	return health, nil
}
