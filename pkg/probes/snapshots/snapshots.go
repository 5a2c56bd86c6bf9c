package snapshots

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/printer/table"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/snapshot"
	"github.com/lburgazzoli/kube-triage/pkg/util"
)

// Probe reports CSI volume snapshots older than the configured cutoff.
// Snapshots that cannot be projected through the structured-query helper are
// listed unfiltered instead, so the data is never silently dropped.
type Probe struct {
	probe.BaseProbe

	maxAge    time.Duration
	parseOpts []snapshot.ParseOption
	now       func() time.Time
}

// Option is a functional option for configuring the snapshots probe.
type Option = util.Option[Probe]

// WithMaxAge overrides the staleness cutoff.
func WithMaxAge(maxAge time.Duration) Option {
	return util.FunctionalOption[Probe](func(p *Probe) {
		p.maxAge = maxAge
	})
}

// WithParseOptions forwards options to the snapshot parser.
func WithParseOptions(opts ...snapshot.ParseOption) Option {
	return util.FunctionalOption[Probe](func(p *Probe) {
		p.parseOpts = append(p.parseOpts, opts...)
	})
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return util.FunctionalOption[Probe](func(p *Probe) {
		p.now = now
	})
}

// New creates the stale snapshot probe.
func New(opts ...Option) *Probe {
	p := &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "snapshots.stale",
			ProbeName:    "Snapshots :: Stale Volume Snapshots",
			ProbeSection: probe.SectionSnapshots,
		},
		maxAge: snapshot.DefaultMaxAge,
		now:    time.Now,
	}

	util.ApplyOptions(p, opts...)

	return p
}

// CanApply gates the probe on the VolumeSnapshot API being served.
func (p *Probe) CanApply(_ context.Context, target probe.Target) (bool, string) {
	if !target.Namespaces.APIResourceExists(resources.VolumeSnapshot.APIVersion(), resources.VolumeSnapshot.Kind) {
		return false, "VolumeSnapshot API not available"
	}

	return true, ""
}

// Run lists volume snapshots across all namespaces and reports the ones older
// than the cutoff.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	items, err := target.Client.List(ctx, resources.VolumeSnapshot)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return probe.Successf("no volume snapshots found"), nil
	}

	parsed, malformed, err := snapshot.Parse(items, p.parseOpts...)
	if err != nil {
		return p.unfiltered(items, err)
	}

	cutoff := p.now().Add(-p.maxAge)
	stale := snapshot.FilterOlderThan(parsed, cutoff)

	if len(stale) == 0 && len(malformed) == 0 {
		return probe.Successf("%d volume snapshots, none older than %s", len(items), p.maxAge), nil
	}

	outcome := probe.Warningf("%d of %d volume snapshots older than %s", len(stale), len(items), p.maxAge)

	if len(stale) > 0 {
		rendered, err := renderTable(stale)
		if err != nil {
			return nil, err
		}

		outcome = outcome.WithLines(rendered...)
	}

	for _, snap := range malformed {
		outcome = outcome.WithLines(
			fmt.Sprintf("%s/%s: creation timestamp missing or malformed, age unknown", snap.Namespace, snap.Name),
		)
	}

	return outcome, nil
}

// unfiltered is the fallback when the structured-query helper is unusable:
// the full snapshot listing is reported for manual review.
func (p *Probe) unfiltered(items []*unstructured.Unstructured, cause error) (*probe.Outcome, error) {
	outcome := probe.Warningf(
		"cannot filter snapshots by age (%v), listing all %d for manual review", cause, len(items),
	)

	for _, item := range items {
		created, _, _ := unstructured.NestedString(item.Object, "metadata", "creationTimestamp")
		if created == "" {
			created = snapshot.ValueUnknown
		}

		outcome = outcome.WithLines(
			fmt.Sprintf("%s/%s created %s", item.GetNamespace(), item.GetName(), created),
		)
	}

	return outcome, nil
}

func renderTable(stale []snapshot.VolumeSnapshot) ([]string, error) {
	var buf bytes.Buffer

	renderer := table.NewRenderer[snapshot.VolumeSnapshot](
		table.WithWriter[snapshot.VolumeSnapshot](&buf),
		table.WithHeaders[snapshot.VolumeSnapshot]("NAMESPACE", "NAME", "CREATED", "READYTOUSE", "RESTORESIZE"),
		table.WithFormatter[snapshot.VolumeSnapshot]("CREATED", func(value any) any {
			if ts, ok := value.(time.Time); ok {
				return ts.Format(time.RFC3339)
			}

			return value
		}),
		table.WithTableOptions[snapshot.VolumeSnapshot](table.DefaultTableOptions...),
	)

	if err := renderer.AppendAll(stale); err != nil {
		return nil, fmt.Errorf("rendering snapshot table: %w", err)
	}

	if err := renderer.Render(); err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	return lines, nil
}
