package etcd

import (
	"context"
	"errors"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
)

const (
	etcdLabelSelector = "app=etcd"
	etcdContainer     = "etcdctl"
)

// Probe checks consensus-store health by exec-ing etcdctl inside a member
// pod. OpenShift only: vanilla Kubernetes does not expose an etcd namespace,
// and its etcd state already feeds the aggregated /readyz check performed by
// the connectivity probe.
type Probe struct {
	probe.BaseProbe
}

// New creates the etcd health probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "etcd.endpoint-health",
			ProbeName:    "Etcd :: Endpoint Health",
			ProbeSection: probe.SectionEtcd,
		},
	}
}

// CanApply gates the probe to OpenShift clusters with the etcd namespace.
func (p *Probe) CanApply(ctx context.Context, target probe.Target) (bool, string) {
	if target.Dialect != capability.DialectOpenShift {
		return false, "direct etcd inspection requires OpenShift"
	}

	if !target.Namespaces.Exists(ctx, capability.NamespaceEtcd) {
		return false, "namespace openshift-etcd not found"
	}

	return true, ""
}

// Run execs `etcdctl endpoint health --cluster` in the first running member.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	if target.Client.Executor == nil {
		return nil, errors.New("pod exec not available")
	}

	pods, err := target.Client.List(ctx, resources.Pod,
		client.InNamespace(capability.NamespaceEtcd),
		client.WithLabelSelector(etcdLabelSelector),
	)
	if err != nil {
		return nil, err
	}

	var member *unstructured.Unstructured

	for _, pod := range pods {
		phase, _, _ := unstructured.NestedString(pod.Object, "status", "phase")
		if phase == "Running" {
			member = pod

			break
		}
	}

	if member == nil {
		return probe.Warningf("no running etcd member pod in %s", capability.NamespaceEtcd), nil
	}

	output, err := target.Client.Executor.Exec(ctx,
		capability.NamespaceEtcd, member.GetName(), etcdContainer,
		"etcdctl", "endpoint", "health", "--cluster", "-w", "table",
	)
	if err != nil {
		return nil, err
	}

	return probe.Success(strings.Split(strings.TrimSpace(output), "\n")...), nil
}
