package capability

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
)

// openShiftAPIGroup marks an OpenShift control plane when present in
// discovery.
const openShiftAPIGroup = "config.openshift.io"

// Cluster captures the write-once facts established before any probe runs.
type Cluster struct {
	// Dialect is the detected control-plane flavor.
	Dialect Dialect

	// ServerVersion is the parsed API server version, nil when it could not
	// be parsed (parse trouble is not fatal, only unreachability is).
	ServerVersion *semver.Version

	// NodeCount is the number of nodes seen by the connectivity check.
	NodeCount int
}

// Detect establishes connectivity and determines the cluster dialect.
//
// It performs the single fatal precondition of a run: listing nodes. When
// that fails nothing later can be trusted, so the returned error aborts the
// whole run. Everything else it gathers is best-effort.
func Detect(ctx context.Context, c *client.Client) (*Cluster, error) {
	nodes, err := c.List(ctx, resources.Node)
	if err != nil {
		return nil, fmt.Errorf("cannot reach the cluster API (check KUBECONFIG and your credentials): %w", err)
	}

	cluster := &Cluster{
		Dialect:   DialectKubernetes,
		NodeCount: len(nodes),
	}

	if groups, err := c.Discovery.ServerGroups(); err == nil {
		for _, group := range groups.Groups {
			if group.Name == openShiftAPIGroup {
				cluster.Dialect = DialectOpenShift

				break
			}
		}
	}

	if info, err := c.Discovery.ServerVersion(); err == nil {
		if ver, err := semver.ParseTolerant(info.GitVersion); err == nil {
			cluster.ServerVersion = &ver
		}
	}

	return cluster, nil
}
