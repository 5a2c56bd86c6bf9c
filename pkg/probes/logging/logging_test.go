package logging_test

import (
	"context"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/probes/logging"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"

	. "github.com/onsi/gomega"
)

//nolint:gochecknoglobals // Test fixture - shared across test functions
var listKinds = map[schema.GroupVersionResource]string{
	resources.Pod.GVR():       resources.Pod.ListKind(),
	resources.Namespace.GVR(): resources.Namespace.ListKind(),
}

func newPod(namespace string, name string, phase string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": resources.Pod.APIVersion(),
			"kind":       resources.Pod.Kind,
			"metadata": map[string]any{
				"name":      name,
				"namespace": namespace,
			},
			"status": map[string]any{
				"phase": phase,
			},
		},
	}
}

func newNamespace(name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": resources.Namespace.APIVersion(),
			"kind":       resources.Namespace.Kind,
			"metadata": map[string]any{
				"name": name,
			},
		},
	}
}

func newTarget(objects ...runtime.Object) probe.Target {
	scheme := runtime.NewScheme()
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, listKinds, objects...)

	c := &client.Client{Dynamic: dynamicClient}

	return probe.Target{
		Client:     c,
		Namespaces: capability.NewNamespaceCache(c),
	}
}

func TestLoggingGatedOffWithoutNamespace(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	applies, reason := logging.New().CanApply(ctx, newTarget())
	g.Expect(applies).To(BeFalse())
	g.Expect(reason).To(ContainSubstring("openshift-logging"))
}

func TestLoggingAppliesOnAnyDialectWithNamespace(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	target := newTarget(newNamespace(capability.NamespaceLogging))
	target.Dialect = capability.DialectKubernetes

	applies, _ := logging.New().CanApply(ctx, target)
	g.Expect(applies).To(BeTrue())
}

func TestLoggingHealthyStack(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	target := newTarget(
		newNamespace(capability.NamespaceLogging),
		newPod(capability.NamespaceLogging, "collector-abc", "Running"),
		newPod(capability.NamespaceLogging, "collector-def", "Running"),
		newPod("default", "unrelated", "Pending"),
	)

	outcome, err := logging.New().Run(ctx, target)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(probe.StatusSuccess))
	g.Expect(outcome.Lines[0]).To(Equal("logging stack healthy (2 pods)"))
}

func TestLoggingUnhealthyPods(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	target := newTarget(
		newNamespace(capability.NamespaceLogging),
		newPod(capability.NamespaceLogging, "collector-abc", "Running"),
		newPod(capability.NamespaceLogging, "collector-def", "CrashLoopBackOff"),
	)

	outcome, err := logging.New().Run(ctx, target)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(probe.StatusWarning))
	g.Expect(outcome.Reason).To(Equal("1 of 2 logging pods unhealthy"))
	g.Expect(outcome.Lines).To(ContainElement("collector-def: CrashLoopBackOff"))
}

func TestLoggingEmptyNamespace(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	target := newTarget(newNamespace(capability.NamespaceLogging))

	outcome, err := logging.New().Run(ctx, target)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(probe.StatusWarning))
	g.Expect(outcome.Reason).To(ContainSubstring("runs no pods"))
}
