package events

import (
	"context"
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
)

// maxEvents caps the number of warning events shown in the report.
const maxEvents = 25

// Probe reports recent warning events across all namespaces, oldest first so
// the freshest entries sit at the bottom of the section.
type Probe struct {
	probe.BaseProbe
}

// New creates the warning events probe.
func New() *Probe {
	return &Probe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "events.warnings",
			ProbeName:    "Events :: Recent Warnings",
			ProbeSection: probe.SectionEvents,
		},
	}
}

// Run lists warning events sorted by last-seen time.
func (p *Probe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	items, err := target.Client.List(ctx, resources.Event,
		client.WithFieldSelector("type=Warning"),
	)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return lastSeen(items[i]) < lastSeen(items[j])
	})

	if len(items) > maxEvents {
		items = items[len(items)-maxEvents:]
	}

	lines := make([]string, 0, len(items))

	for _, event := range items {
		reason, _, _ := unstructured.NestedString(event.Object, "reason")
		message, _, _ := unstructured.NestedString(event.Object, "message")

		lines = append(lines, fmt.Sprintf("%s %s/%s %s: %s",
			lastSeen(event), event.GetNamespace(), objectName(event), reason, message))
	}

	if len(lines) == 0 {
		return probe.Successf("no warning events"), nil
	}

	return probe.Successf("%d recent warning events", len(lines)).
		WithLines(lines...), nil
}

func lastSeen(event *unstructured.Unstructured) string {
	if ts, found, _ := unstructured.NestedString(event.Object, "lastTimestamp"); found && ts != "" {
		return ts
	}

	// Events API v1 populates eventTime instead of lastTimestamp.
	ts, _, _ := unstructured.NestedString(event.Object, "eventTime")

	return ts
}

func objectName(event *unstructured.Unstructured) string {
	name, _, _ := unstructured.NestedString(event.Object, "involvedObject", "name")

	return name
}
