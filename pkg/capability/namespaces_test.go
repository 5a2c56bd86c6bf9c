package capability_test

import (
	"context"
	"sync/atomic"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	discoveryfake "k8s.io/client-go/discovery/fake"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	clienttesting "k8s.io/client-go/testing"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/resources"

	. "github.com/onsi/gomega"
)

// discoveryWithKinds builds a fake discovery serving the given kinds under one
// group/version.
func discoveryWithKinds(groupVersion string, kinds ...string) *discoveryfake.FakeDiscovery {
	clientset := fake.NewSimpleClientset()
	fakeDiscovery := clientset.Discovery().(*discoveryfake.FakeDiscovery)

	apiResources := make([]metav1.APIResource, 0, len(kinds))
	for _, kind := range kinds {
		apiResources = append(apiResources, metav1.APIResource{Kind: kind})
	}

	fakeDiscovery.Resources = []*metav1.APIResourceList{{
		GroupVersion: groupVersion,
		APIResources: apiResources,
	}}

	return fakeDiscovery
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

func TestNamespaceExists(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	c := newTestClient(nil, "", newNamespace("openshift-storage"))
	cache := capability.NewNamespaceCache(c)

	g.Expect(cache.Exists(ctx, "openshift-storage")).To(BeTrue())
	g.Expect(cache.Exists(ctx, "openshift-logging")).To(BeFalse())
}

func TestNamespaceExistsIsMemoized(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	c := newTestClient(nil, "", newNamespace("openshift-etcd"))

	var lookups atomic.Int32

	dynamicClient := c.Dynamic.(*dynamicfake.FakeDynamicClient)
	dynamicClient.PrependReactor("get", "namespaces", func(clienttesting.Action) (bool, runtime.Object, error) {
		lookups.Add(1)

		// Fall through to the default object tracker.
		return false, nil, nil
	})

	cache := capability.NewNamespaceCache(c)

	g.Expect(cache.Exists(ctx, "openshift-etcd")).To(BeTrue())
	g.Expect(cache.Exists(ctx, "openshift-etcd")).To(BeTrue())
	g.Expect(cache.Exists(ctx, "openshift-etcd")).To(BeTrue())

	g.Expect(lookups.Load()).To(Equal(int32(1)))

	// Absence is memoized too.
	g.Expect(cache.Exists(ctx, "missing")).To(BeFalse())
	g.Expect(cache.Exists(ctx, "missing")).To(BeFalse())

	g.Expect(lookups.Load()).To(Equal(int32(2)))
}

func TestAPIResourceExists(t *testing.T) {
	g := NewWithT(t)

	c := newTestClient(nil, "")
	c.Discovery = discoveryWithKinds("snapshot.storage.k8s.io/v1", "VolumeSnapshot")

	cache := capability.NewNamespaceCache(c)

	g.Expect(cache.APIResourceExists("snapshot.storage.k8s.io/v1", "VolumeSnapshot")).To(BeTrue())
	g.Expect(cache.APIResourceExists("snapshot.storage.k8s.io/v1", "VolumeSnapshotContent")).To(BeFalse())
	g.Expect(cache.APIResourceExists("ceph.rook.io/v1", "CephCluster")).To(BeFalse())
}

func TestAPIResourceExistsIsMemoized(t *testing.T) {
	g := NewWithT(t)

	c := newTestClient(nil, "")

	fakeDiscovery := discoveryWithKinds("operators.coreos.com/v1alpha1", "ClusterServiceVersion")
	c.Discovery = fakeDiscovery

	cache := capability.NewNamespaceCache(c)

	g.Expect(cache.APIResourceExists("operators.coreos.com/v1alpha1", "ClusterServiceVersion")).To(BeTrue())

	actionsAfterFirst := len(fakeDiscovery.Actions())

	g.Expect(cache.APIResourceExists("operators.coreos.com/v1alpha1", "ClusterServiceVersion")).To(BeTrue())
	g.Expect(cache.APIResourceExists("operators.coreos.com/v1alpha1", "ClusterServiceVersion")).To(BeTrue())

	g.Expect(fakeDiscovery.Actions()).To(HaveLen(actionsAfterFirst))
}
