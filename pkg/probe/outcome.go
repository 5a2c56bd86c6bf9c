package probe

import (
	"errors"
	"fmt"
)

// Status is the three-state outcome of a probe. Every probe resolves to
// exactly one of these; nothing escapes the runner boundary.
type Status string

const (
	// StatusSuccess means the probe ran and produced its payload.
	StatusSuccess Status = "Success"

	// StatusWarning means the probe could not fully run (missing optional
	// namespace, missing API, skipped by gating) or found something worth a
	// human look. The run continues.
	StatusWarning Status = "Warning"

	// StatusFailure means the probe's client call failed. The run continues.
	StatusFailure Status = "Failure"
)

// Validate checks if the status is valid.
func (s Status) Validate() error {
	switch s {
	case StatusSuccess, StatusWarning, StatusFailure:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Outcome is the result of a single probe.
type Outcome struct {
	// Status is the outcome state.
	Status Status `json:"status" yaml:"status"`

	// Reason summarizes the outcome in one line. Required for Warning and
	// Failure; optional for Success.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Lines is the probe payload: pre-rendered text or table rows.
	Lines []string `json:"lines,omitempty" yaml:"lines,omitempty"`

	// Degraded marks a Success obtained through a fallback path.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Success creates a successful outcome carrying the given payload lines.
func Success(lines ...string) *Outcome {
	return &Outcome{
		Status: StatusSuccess,
		Lines:  lines,
	}
}

// Successf creates a successful outcome with a single formatted payload line.
func Successf(format string, args ...any) *Outcome {
	return Success(fmt.Sprintf(format, args...))
}

// Warningf creates a warning outcome with a formatted reason.
func Warningf(format string, args ...any) *Outcome {
	return &Outcome{
		Status: StatusWarning,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Failuref creates a failure outcome with a formatted reason.
func Failuref(format string, args ...any) *Outcome {
	return &Outcome{
		Status: StatusFailure,
		Reason: fmt.Sprintf(format, args...),
	}
}

// WithLines attaches payload lines to the outcome and returns it.
func (o *Outcome) WithLines(lines ...string) *Outcome {
	o.Lines = append(o.Lines, lines...)

	return o
}

// AsDegraded marks a Success as obtained through a fallback path.
func (o *Outcome) AsDegraded(reason string) *Outcome {
	o.Degraded = true
	o.Reason = reason

	return o
}

// Validate checks if the outcome is well-formed.
func (o *Outcome) Validate() error {
	if err := o.Status.Validate(); err != nil {
		return err
	}

	if o.Status != StatusSuccess && o.Reason == "" {
		return errors.New("reason must be set for Warning and Failure outcomes")
	}

	return nil
}
