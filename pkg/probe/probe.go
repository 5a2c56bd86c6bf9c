package probe

import (
	"context"
)

// Section classifies probes into report sections. Sections appear in the
// report in catalog order.
type Section string

const (
	SectionConnectivity Section = "connectivity"
	SectionNodes        Section = "nodes"
	SectionOperators    Section = "operators"
	SectionWorkloads    Section = "workloads"
	SectionStorage      Section = "storage"
	SectionCRDs         Section = "custom-resources"
	SectionEvents       Section = "events"
	SectionEtcd         Section = "etcd"
	SectionLogging      Section = "logging"
	SectionSnapshots    Section = "volume-snapshots"
)

// Title returns the human-readable section header.
func (s Section) Title() string {
	switch s {
	case SectionConnectivity:
		return "Connectivity"
	case SectionNodes:
		return "Nodes"
	case SectionOperators:
		return "Operators"
	case SectionWorkloads:
		return "Workloads"
	case SectionStorage:
		return "Networking & Storage"
	case SectionCRDs:
		return "Custom Resources"
	case SectionEvents:
		return "Events"
	case SectionEtcd:
		return "Etcd"
	case SectionLogging:
		return "Logging"
	case SectionSnapshots:
		return "Volume Snapshots"
	default:
		return string(s)
	}
}

// Probe is one independent diagnostic check producing a single outcome.
//
// Probes are stateless: all per-run context arrives through Target. A probe
// must never mutate cluster state and must never panic its way past the
// runner; anything it returns or raises is folded into an Outcome.
type Probe interface {
	// ID returns the unique identifier for this probe.
	ID() string

	// Name returns the human-readable probe name.
	Name() string

	// Section returns the report section this probe belongs to.
	Section() Section

	// CanApply reports whether this probe applies to the target, with a
	// human-readable reason when it does not. A probe that does not apply is
	// recorded as skipped, never silently omitted, and its Run is never
	// invoked.
	CanApply(ctx context.Context, target Target) (bool, string)

	// Run executes the probe against the target.
	Run(ctx context.Context, target Target) (*Outcome, error)
}
