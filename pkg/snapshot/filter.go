package snapshot

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/util"
	"github.com/lburgazzoli/kube-triage/pkg/util/jq"
)

// ValueUnknown is reported for snapshot fields the cluster did not populate.
const ValueUnknown = "unknown"

// DefaultMaxAge is the default staleness cutoff for volume snapshots.
const DefaultMaxAge = 7 * 24 * time.Hour

// VolumeSnapshot is the projection of a cluster VolumeSnapshot the age filter
// operates on. Read-only, sourced fresh each run.
type VolumeSnapshot struct {
	Namespace   string    `json:"namespace"   yaml:"namespace"`
	Name        string    `json:"name"        yaml:"name"`
	Created     time.Time `json:"created"     yaml:"created"`
	ReadyToUse  string    `json:"readyToUse"  yaml:"readyToUse"`
	RestoreSize string    `json:"restoreSize" yaml:"restoreSize"`
}

const (
	queryReadyToUse  = `.status.readyToUse`
	queryRestoreSize = `.status.restoreSize`
)

// ParseConfig configures snapshot parsing.
type ParseConfig struct {
	ReadyToUseQuery  string
	RestoreSizeQuery string
}

// ParseOption is an option for configuring Parse.
type ParseOption = util.Option[ParseConfig]

// WithStatusQueries overrides the jq projections used for the status fields.
func WithStatusQueries(readyToUse string, restoreSize string) ParseOption {
	return util.FunctionalOption[ParseConfig](func(c *ParseConfig) {
		c.ReadyToUseQuery = readyToUse
		c.RestoreSizeQuery = restoreSize
	})
}

// Parse projects cluster VolumeSnapshot objects into the filter model using
// the jq helper. Items whose creation timestamp is missing or malformed end
// up in the second return value; they can never be aged reliably, so they are
// kept out of the stale set but surfaced for the report.
//
// A non-nil error means the structured-query helper itself is unusable (for
// example a bad projection); callers fall back to an unfiltered listing.
func Parse(items []*unstructured.Unstructured, opts ...ParseOption) ([]VolumeSnapshot, []VolumeSnapshot, error) {
	cfg := &ParseConfig{
		ReadyToUseQuery:  queryReadyToUse,
		RestoreSizeQuery: queryRestoreSize,
	}
	util.ApplyOptions(cfg, opts...)

	parsed := make([]VolumeSnapshot, 0, len(items))
	malformed := make([]VolumeSnapshot, 0)

	for _, item := range items {
		snap := VolumeSnapshot{
			Namespace:   item.GetNamespace(),
			Name:        item.GetName(),
			ReadyToUse:  ValueUnknown,
			RestoreSize: ValueUnknown,
		}

		ready, err := jq.Query[any](item, cfg.ReadyToUseQuery)
		if err != nil {
			return nil, nil, fmt.Errorf("projecting readyToUse for %s/%s: %w", snap.Namespace, snap.Name, err)
		}

		if b, ok := ready.(bool); ok {
			snap.ReadyToUse = fmt.Sprintf("%t", b)
		}

		size, err := jq.Query[any](item, cfg.RestoreSizeQuery)
		if err != nil {
			return nil, nil, fmt.Errorf("projecting restoreSize for %s/%s: %w", snap.Namespace, snap.Name, err)
		}

		if s, ok := size.(string); ok && s != "" {
			snap.RestoreSize = s
		}

		created, found, _ := unstructured.NestedString(item.Object, "metadata", "creationTimestamp")
		if !found || created == "" {
			malformed = append(malformed, snap)

			continue
		}

		ts, err := time.Parse(time.RFC3339, created)
		if err != nil {
			malformed = append(malformed, snap)

			continue
		}

		snap.Created = ts
		parsed = append(parsed, snap)
	}

	return parsed, malformed, nil
}

// FilterOlderThan returns the snapshots created strictly before the cutoff.
// Input order is preserved; the filter is idempotent.
func FilterOlderThan(snapshots []VolumeSnapshot, cutoff time.Time) []VolumeSnapshot {
	stale := make([]VolumeSnapshot, 0, len(snapshots))

	for _, snap := range snapshots {
		if snap.Created.Before(cutoff) {
			stale = append(stale, snap)
		}
	}

	return stale
}
