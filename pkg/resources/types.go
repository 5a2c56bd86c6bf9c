package resources

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceType defines a Kubernetes resource with its GroupVersionKind and
// GroupVersionResource.
type ResourceType struct {
	Group    string
	Version  string
	Kind     string
	Resource string
}

// GVK returns the GroupVersionKind for this resource.
func (r ResourceType) GVK() schema.GroupVersionKind {
	return schema.GroupVersionKind{
		Group:   r.Group,
		Version: r.Version,
		Kind:    r.Kind,
	}
}

// GVR returns the GroupVersionResource for this resource.
func (r ResourceType) GVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    r.Group,
		Version:  r.Version,
		Resource: r.Resource,
	}
}

// ListKind returns the list kind name for this resource (Kind + "List").
func (r ResourceType) ListKind() string {
	return r.Kind + "List"
}

// APIVersion returns the apiVersion string (group/version, or bare version for
// core resources).
func (r ResourceType) APIVersion() string {
	if r.Group == "" {
		return r.Version
	}

	return r.Group + "/" + r.Version
}

// TypeMeta returns a metav1.TypeMeta for this resource type.
func (r ResourceType) TypeMeta() metav1.TypeMeta {
	return metav1.TypeMeta{
		APIVersion: r.APIVersion(),
		Kind:       r.Kind,
	}
}

// Unstructured returns a new unstructured.Unstructured with the GVK set.
func (r ResourceType) Unstructured() unstructured.Unstructured {
	obj := unstructured.Unstructured{}
	obj.SetGroupVersionKind(r.GVK())

	return obj
}

// Centralized resource type definitions. All GVK/GVR references go through
// these, never inline construction.
//
//nolint:gochecknoglobals // Centralized GVK/GVR definitions shared across probes
var (
	Node = ResourceType{
		Group:    "",
		Version:  "v1",
		Kind:     "Node",
		Resource: "nodes",
	}

	Namespace = ResourceType{
		Group:    "",
		Version:  "v1",
		Kind:     "Namespace",
		Resource: "namespaces",
	}

	Pod = ResourceType{
		Group:    "",
		Version:  "v1",
		Kind:     "Pod",
		Resource: "pods",
	}

	Event = ResourceType{
		Group:    "",
		Version:  "v1",
		Kind:     "Event",
		Resource: "events",
	}

	PersistentVolume = ResourceType{
		Group:    "",
		Version:  "v1",
		Kind:     "PersistentVolume",
		Resource: "persistentvolumes",
	}

	PersistentVolumeClaim = ResourceType{
		Group:    "",
		Version:  "v1",
		Kind:     "PersistentVolumeClaim",
		Resource: "persistentvolumeclaims",
	}

	Deployment = ResourceType{
		Group:    "apps",
		Version:  "v1",
		Kind:     "Deployment",
		Resource: "deployments",
	}

	CustomResourceDefinition = ResourceType{
		Group:    "apiextensions.k8s.io",
		Version:  "v1",
		Kind:     "CustomResourceDefinition",
		Resource: "customresourcedefinitions",
	}

	// ClusterVersion is the OpenShift cluster version resource.
	ClusterVersion = ResourceType{
		Group:    "config.openshift.io",
		Version:  "v1",
		Kind:     "ClusterVersion",
		Resource: "clusterversions",
	}

	// ClusterOperator is the OpenShift cluster operator status resource.
	ClusterOperator = ResourceType{
		Group:    "config.openshift.io",
		Version:  "v1",
		Kind:     "ClusterOperator",
		Resource: "clusteroperators",
	}

	// ClusterServiceVersion is the OLM CSV resource.
	ClusterServiceVersion = ResourceType{
		Group:    "operators.coreos.com",
		Version:  "v1alpha1",
		Kind:     "ClusterServiceVersion",
		Resource: "clusterserviceversions",
	}

	// VolumeSnapshot is the CSI volume snapshot resource.
	VolumeSnapshot = ResourceType{
		Group:    "snapshot.storage.k8s.io",
		Version:  "v1",
		Kind:     "VolumeSnapshot",
		Resource: "volumesnapshots",
	}

	// CephCluster is the Rook/ODF ceph cluster resource, used as the fallback
	// source of storage health when the toolbox pod is absent.
	CephCluster = ResourceType{
		Group:    "ceph.rook.io",
		Version:  "v1",
		Kind:     "CephCluster",
		Resource: "cephclusters",
	}

	// ClusterLogging is the OpenShift logging stack resource.
	ClusterLogging = ResourceType{
		Group:    "logging.openshift.io",
		Version:  "v1",
		Kind:     "ClusterLogging",
		Resource: "clusterloggings",
	}
)
