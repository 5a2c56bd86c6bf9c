package events_test

import (
	"context"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/probes/events"
	"github.com/lburgazzoli/kube-triage/pkg/resources"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"

	. "github.com/onsi/gomega"
)

//nolint:gochecknoglobals // Test fixture - shared across test functions
var listKinds = map[schema.GroupVersionResource]string{
	resources.Event.GVR(): resources.Event.ListKind(),
}

func newWarningEvent(name string, lastTimestamp string, reason string, message string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": resources.Event.APIVersion(),
			"kind":       resources.Event.Kind,
			"metadata": map[string]any{
				"name":      name,
				"namespace": "default",
			},
			"type":          "Warning",
			"lastTimestamp": lastTimestamp,
			"reason":        reason,
			"message":       message,
			"involvedObject": map[string]any{
				"name": "web-0",
			},
		},
	}
}

func newTarget(objects ...runtime.Object) probe.Target {
	scheme := runtime.NewScheme()
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, listKinds, objects...)

	return probe.Target{
		Client: &client.Client{Dynamic: dynamicClient},
	}
}

func TestEventsNoWarnings(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	outcome, err := events.New().Run(ctx, newTarget())

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(probe.StatusSuccess))
	g.Expect(outcome.Lines).To(ContainElement("no warning events"))
}

func TestEventsSortedOldestFirst(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	target := newTarget(
		newWarningEvent("evt-b", "2026-08-22T11:00:00Z", "BackOff", "restarting failed container"),
		newWarningEvent("evt-a", "2026-08-22T09:00:00Z", "FailedScheduling", "0/3 nodes available"),
	)

	outcome, err := events.New().Run(ctx, target)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(probe.StatusSuccess))
	g.Expect(outcome.Lines).To(HaveLen(3))
	g.Expect(outcome.Lines[0]).To(Equal("2 recent warning events"))
	g.Expect(outcome.Lines[1]).To(Equal(
		"2026-08-22T09:00:00Z default/web-0 FailedScheduling: 0/3 nodes available"))
	g.Expect(outcome.Lines[2]).To(Equal(
		"2026-08-22T11:00:00Z default/web-0 BackOff: restarting failed container"))
}

func TestEventsFallsBackToEventTime(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	event := newWarningEvent("evt-a", "", "BackOff", "restarting failed container")
	delete(event.Object, "lastTimestamp")
	event.Object["eventTime"] = "2026-08-22T10:30:00Z"

	outcome, err := events.New().Run(ctx, newTarget(event))

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Lines[1]).To(HavePrefix("2026-08-22T10:30:00Z"))
}
