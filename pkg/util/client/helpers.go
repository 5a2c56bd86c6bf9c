package client

import (
	"context"
	"errors"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util"
)

// ListResourcesConfig configures resource listing.
type ListResourcesConfig struct {
	Namespace     string
	LabelSelector string
	FieldSelector string
	Limit         int64
}

// ListResourcesOption is an option for configuring List and ListResources.
type ListResourcesOption = util.Option[ListResourcesConfig]

// InNamespace scopes the listing to a single namespace.
func InNamespace(ns string) ListResourcesOption {
	return util.FunctionalOption[ListResourcesConfig](func(c *ListResourcesConfig) {
		c.Namespace = ns
	})
}

// WithLabelSelector filters resources by label selector.
func WithLabelSelector(selector string) ListResourcesOption {
	return util.FunctionalOption[ListResourcesConfig](func(c *ListResourcesConfig) {
		c.LabelSelector = selector
	})
}

// WithFieldSelector filters resources by field selector.
func WithFieldSelector(selector string) ListResourcesOption {
	return util.FunctionalOption[ListResourcesConfig](func(c *ListResourcesConfig) {
		c.FieldSelector = selector
	})
}

// WithLimit caps the total number of items returned across all pages.
func WithLimit(limit int64) ListResourcesOption {
	return util.FunctionalOption[ListResourcesConfig](func(c *ListResourcesConfig) {
		c.Limit = limit
	})
}

// ListResources lists all instances of a resource by GVR, following
// pagination. Errors are returned as-is, wrapped; classification (fatal for
// the connectivity precheck, Warning for probes) belongs to the caller.
func (c *Client) ListResources(
	ctx context.Context,
	gvr schema.GroupVersionResource,
	opts ...ListResourcesOption,
) ([]*unstructured.Unstructured, error) {
	cfg := &ListResourcesConfig{}
	util.ApplyOptions(cfg, opts...)

	var allItems []*unstructured.Unstructured

	continueToken := ""

	for {
		listOpts := metav1.ListOptions{
			LabelSelector: cfg.LabelSelector,
			FieldSelector: cfg.FieldSelector,
			Limit:         cfg.Limit,
			Continue:      continueToken,
		}

		var list *unstructured.UnstructuredList
		var err error

		if cfg.Namespace != "" {
			list, err = c.Dynamic.Resource(gvr).Namespace(cfg.Namespace).List(ctx, listOpts)
		} else {
			list, err = c.Dynamic.Resource(gvr).List(ctx, listOpts)
		}

		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", gvr.Resource, err)
		}

		for i := range list.Items {
			allItems = append(allItems, &list.Items[i])
		}

		if cfg.Limit > 0 && int64(len(allItems)) >= cfg.Limit {
			break
		}

		if list.GetContinue() == "" {
			break
		}

		continueToken = list.GetContinue()
	}

	return allItems, nil
}

// List lists all instances of a resource type, following pagination.
// Convenience wrapper around ListResources.
func (c *Client) List(
	ctx context.Context,
	resourceType resources.ResourceType,
	opts ...ListResourcesOption,
) ([]*unstructured.Unstructured, error) {
	return c.ListResources(ctx, resourceType.GVR(), opts...)
}

// Get retrieves a single cluster-scoped or namespaced resource by GVR.
// Use an empty namespace for cluster-scoped resources.
func (c *Client) Get(
	ctx context.Context,
	gvr schema.GroupVersionResource,
	namespace string,
	name string,
) (*unstructured.Unstructured, error) {
	var obj *unstructured.Unstructured
	var err error

	if namespace != "" {
		obj, err = c.Dynamic.Resource(gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	} else {
		obj, err = c.Dynamic.Resource(gvr).Get(ctx, name, metav1.GetOptions{})
	}

	if err != nil {
		return nil, fmt.Errorf("getting %s %q: %w", gvr.Resource, name, err)
	}

	return obj, nil
}

// Raw performs a GET against an absolute API server path (for example
// /readyz or /apis/metrics.k8s.io/v1beta1/nodes) and returns the raw payload.
func (c *Client) Raw(ctx context.Context, path string) ([]byte, error) {
	if c.Discovery == nil {
		return nil, errors.New("discovery client not available")
	}

	restClient := c.Discovery.RESTClient()
	if restClient == nil {
		return nil, errors.New("raw API access not available")
	}

	data, err := restClient.Get().AbsPath(path).DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("raw GET %s: %w", path, err)
	}

	return data, nil
}
