package capability

import (
	"context"
	"sync"

	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
)

// NamespaceCache memoizes namespace and API-resource existence lookups.
// Each namespace and each group/version is queried at most once per run;
// absence (including permission denial) is a gating signal, never an error.
//
// Probes share one cache read-mostly; the lock only matters if a future
// caller runs probes in parallel.
type NamespaceCache struct {
	client *client.Client

	mu         sync.Mutex
	namespaces map[string]bool
	apis       map[string]bool
}

// NewNamespaceCache creates a cache bound to the given client.
func NewNamespaceCache(c *client.Client) *NamespaceCache {
	return &NamespaceCache{
		client:     c,
		namespaces: make(map[string]bool),
		apis:       make(map[string]bool),
	}
}

// Exists reports whether the namespace exists, looking it up at most once.
func (n *NamespaceCache) Exists(ctx context.Context, name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if found, ok := n.namespaces[name]; ok {
		return found
	}

	found := false
	if _, err := n.client.Get(ctx, resources.Namespace.GVR(), "", name); err == nil {
		found = true
	}

	n.namespaces[name] = found

	return found
}

// APIResourceExists reports whether a kind is served under the given
// group/version, looking it up at most once.
func (n *NamespaceCache) APIResourceExists(groupVersion string, kind string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	key := groupVersion + "/" + kind

	if found, ok := n.apis[key]; ok {
		return found
	}

	found := false

	if list, err := n.client.Discovery.ServerResourcesForGroupVersion(groupVersion); err == nil {
		for _, res := range list.APIResources {
			if res.Kind == kind {
				found = true

				break
			}
		}
	}

	n.apis[key] = found

	return found
}
