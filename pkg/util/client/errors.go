package client

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"k8s.io/apimachinery/pkg/api/meta"
)

// IsPermissionError reports whether the error is an RBAC or authentication
// failure on a sub-resource.
func IsPermissionError(err error) bool {
	return apierrors.IsForbidden(err) || apierrors.IsUnauthorized(err)
}

// IsSoftError reports whether the error should degrade a probe to a Warning
// rather than a Failure. A missing optional API and a denied one are treated
// identically: absence of data, not a broken cluster.
func IsSoftError(err error) bool {
	if err == nil {
		return false
	}

	if IsPermissionError(err) || apierrors.IsNotFound(err) {
		return true
	}

	// Unregistered CRDs surface as no-match errors from the RESTMapper
	// or as NotFound from the discovery cache.
	return meta.IsNoMatchError(err)
}
