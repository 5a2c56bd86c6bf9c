package client

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/lburgazzoli/kube-triage/pkg/resources"
)

// Reader is the read-only resource surface exposed to probes. Nothing on it
// can mutate cluster state.
type Reader interface {
	// List lists all instances of a resource type, following pagination.
	List(
		ctx context.Context,
		resourceType resources.ResourceType,
		opts ...ListResourcesOption,
	) ([]*unstructured.Unstructured, error)

	// ListResources lists all instances of a resource by GVR, following
	// pagination.
	ListResources(
		ctx context.Context,
		gvr schema.GroupVersionResource,
		opts ...ListResourcesOption,
	) ([]*unstructured.Unstructured, error)

	// Get retrieves a single resource by GVR, namespace, and name.
	Get(
		ctx context.Context,
		gvr schema.GroupVersionResource,
		namespace string,
		name string,
	) (*unstructured.Unstructured, error)

	// Raw performs a GET against an absolute API server path.
	Raw(ctx context.Context, path string) ([]byte, error)
}

var _ Reader = (*Client)(nil)
