package probe

import (
	"context"
)

// BaseProbe provides common probe metadata through composition. Embed it in
// probe implementations to cut boilerplate.
type BaseProbe struct {
	ProbeID      string
	ProbeName    string
	ProbeSection Section
}

// ID returns the unique identifier for this probe.
func (b BaseProbe) ID() string {
	return b.ProbeID
}

// Name returns the human-readable probe name.
func (b BaseProbe) Name() string {
	return b.ProbeName
}

// Section returns the report section this probe belongs to.
func (b BaseProbe) Section() Section {
	return b.ProbeSection
}

// CanApply defaults to applicable. Probes with gating rules override this.
func (b BaseProbe) CanApply(_ context.Context, _ Target) (bool, string) {
	return true, ""
}
