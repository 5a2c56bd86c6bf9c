package probe

import (
	"github.com/blang/semver/v4"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
	"github.com/lburgazzoli/kube-triage/pkg/util/iostreams"
)

// Target holds the per-run context passed into every probe. It is built once
// by the capability detector and never mutated afterwards; the namespace
// cache is the only shared structure, and it is append-only.
type Target struct {
	// Client provides read-only access to the cluster.
	Client *client.Client

	// Dialect is the detected control-plane flavor.
	Dialect capability.Dialect

	// ServerVersion is the parsed API server version, nil when unknown.
	ServerVersion *semver.Version

	// Namespaces memoizes optional namespace and API existence lookups.
	Namespaces *capability.NamespaceCache

	// IO carries the streams probes may log progress to. May be nil.
	IO iostreams.Interface
}
