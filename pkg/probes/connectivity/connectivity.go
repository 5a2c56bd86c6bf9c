package connectivity

import (
	"context"
	"fmt"
	"strings"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
)

// Probe reports the API server reachability facts gathered at startup and
// checks the aggregated /readyz endpoint. It is always applicable: the fatal
// connectivity precondition already ran, so this probe only re-states and
// deepens what the run is built on.
type Probe struct {
	probe.BaseProbe
}

// New creates the connectivity probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "connectivity.api-server",
			ProbeName:    "Connectivity :: API Server",
			ProbeSection: probe.SectionConnectivity,
		},
	}
}

// Run gathers version, dialect, and /readyz state.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	lines := []string{
		fmt.Sprintf("platform: %s", target.Dialect),
	}

	if target.ServerVersion != nil {
		lines = append(lines, fmt.Sprintf("server version: %s", target.ServerVersion.String()))
	} else {
		lines = append(lines, "server version: unknown")
	}

	data, err := target.Client.Raw(ctx, "/readyz")
	if err != nil {
		// Reachability is already proven; a gated /readyz is worth noting,
		// not failing.
		return probe.Warningf("API server reachable but /readyz not readable: %v", err).
			WithLines(lines...), nil
	}

	lines = append(lines, fmt.Sprintf("readyz: %s", strings.TrimSpace(string(data))))

	return probe.Success(lines...), nil
}
