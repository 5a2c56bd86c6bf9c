package probe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
	mocks "github.com/lburgazzoli/kube-triage/pkg/util/test/mocks/probe"

	. "github.com/onsi/gomega"
)

// panicProbe exercises the runner's panic isolation.
type panicProbe struct {
	probe.BaseProbe
}

func (p *panicProbe) Run(_ context.Context, _ probe.Target) (*probe.Outcome, error) {
	panic("unexpected nil dereference")
}

func TestRunnerSkipsGatedProbe(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	m := mocks.NewMockProbe()
	m.On("ID").Return("gated.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(false, "OLM is not installed")

	runner := probe.NewRunner(nil)
	execution := runner.Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome).ToNot(BeNil())
	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusWarning))
	g.Expect(execution.Outcome.Reason).To(Equal("skipped: OLM is not installed"))
	g.Expect(execution.Skipped).To(BeTrue())
	g.Expect(execution.Error).ToNot(HaveOccurred())

	m.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestRunnerSkipWithoutReasonGetsDefault(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	m := mocks.NewMockProbe()
	m.On("ID").Return("gated.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(false, "")

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Reason).To(Equal("skipped: not applicable to this cluster"))
}

func TestRunnerSuccessPassthrough(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	m := mocks.NewMockProbe()
	m.On("ID").Return("happy.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(true, "")
	m.On("Run", mock.Anything, mock.Anything).Return(probe.Successf("3/3 nodes ready"), nil)

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusSuccess))
	g.Expect(execution.Outcome.Lines).To(ConsistOf("3/3 nodes ready"))
	g.Expect(execution.Skipped).To(BeFalse())
	g.Expect(execution.Error).ToNot(HaveOccurred())
}

func TestRunnerResolvesErrorToFailure(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	m := mocks.NewMockProbe()
	m.On("ID").Return("broken.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(true, "")
	m.On("Run", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusFailure))
	g.Expect(execution.Outcome.Reason).To(ContainSubstring("probe broken.probe failed"))
	g.Expect(execution.Error).To(HaveOccurred())
}

func TestRunnerResolvesForbiddenToWarning(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	forbidden := apierrors.NewForbidden(
		schema.GroupResource{Group: "config.openshift.io", Resource: "clusteroperators"},
		"",
		errors.New("RBAC denied"),
	)

	m := mocks.NewMockProbe()
	m.On("ID").Return("denied.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(true, "")
	m.On("Run", mock.Anything, mock.Anything).Return(nil, forbidden)

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusWarning))
}

func TestRunnerResolvesNotFoundToWarning(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	notFound := apierrors.NewNotFound(
		schema.GroupResource{Group: "ceph.rook.io", Resource: "cephclusters"},
		"rook-ceph",
	)

	m := mocks.NewMockProbe()
	m.On("ID").Return("missing.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(true, "")
	m.On("Run", mock.Anything, mock.Anything).Return(nil, notFound)

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusWarning))
}

func TestRunnerIsolatesPanics(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	p := &panicProbe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      "panicky.probe",
			ProbeName:    "Panicky",
			ProbeSection: probe.SectionStorage,
		},
	}

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, p)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusFailure))
	g.Expect(execution.Error).To(MatchError(ContainSubstring("panicked")))
}

func TestRunnerRejectsNilOutcome(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	m := mocks.NewMockProbe()
	m.On("ID").Return("empty.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(true, "")
	m.On("Run", mock.Anything, mock.Anything).Return(nil, nil)

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusFailure))
	g.Expect(execution.Outcome.Reason).To(ContainSubstring("returned no outcome"))
}

func TestRunnerRejectsInvalidOutcome(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	m := mocks.NewMockProbe()
	m.On("ID").Return("invalid.probe").Maybe()
	m.On("CanApply", mock.Anything, mock.Anything).Return(true, "")
	m.On("Run", mock.Anything, mock.Anything).Return(&probe.Outcome{Status: probe.StatusWarning}, nil)

	execution := probe.NewRunner(nil).Execute(ctx, probe.Target{}, m)

	g.Expect(execution.Outcome.Status).To(Equal(probe.StatusFailure))
	g.Expect(execution.Outcome.Reason).To(ContainSubstring("invalid outcome"))
}

func TestRunnerExecuteAllKeepsCatalogOrder(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	catalog := probe.NewCatalog()
	catalog.MustRegister(newStaticProbe("first", probe.Successf("ok"), nil))
	catalog.MustRegister(newStaticProbe("second", nil, errors.New("boom")))
	catalog.MustRegister(newStaticProbe("third", probe.Warningf("stale data"), nil))

	executions := probe.NewRunner(nil).ExecuteAll(ctx, probe.Target{}, catalog)

	g.Expect(executions).To(HaveLen(3))
	g.Expect(executions[0].Probe.ID()).To(Equal("first"))
	g.Expect(executions[1].Probe.ID()).To(Equal("second"))
	g.Expect(executions[2].Probe.ID()).To(Equal("third"))

	g.Expect(executions[0].Outcome.Status).To(Equal(probe.StatusSuccess))
	g.Expect(executions[1].Outcome.Status).To(Equal(probe.StatusFailure))
	g.Expect(executions[2].Outcome.Status).To(Equal(probe.StatusWarning))
}

func TestRunnerExecuteAllRecordsProbesNotRunAfterCancellation(t *testing.T) {
	g := NewWithT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	catalog := probe.NewCatalog()
	catalog.MustRegister(newStaticProbe("never-run", probe.Success(), nil))
	catalog.MustRegister(newStaticProbe("never-run-either", probe.Success(), nil))

	executions := probe.NewRunner(nil).ExecuteAll(ctx, probe.Target{}, catalog)

	g.Expect(executions).To(HaveLen(2))

	for _, execution := range executions {
		g.Expect(execution.Outcome.Status).To(Equal(probe.StatusFailure))
		g.Expect(execution.Outcome.Reason).To(Equal("not run: context canceled"))
		g.Expect(execution.Error).To(MatchError(context.Canceled))
	}
}

func TestRunnerExecuteAllRecordsRemainderAfterMidBatteryTimeout(t *testing.T) {
	g := NewWithT(t)

	ctx, cancel := context.WithCancel(context.Background())

	catalog := probe.NewCatalog()
	catalog.MustRegister(&cancellingProbe{
		BaseProbe: probe.BaseProbe{ProbeID: "first"},
		cancel:    cancel,
	})
	catalog.MustRegister(newStaticProbe("second", probe.Success(), nil))

	executions := probe.NewRunner(nil).ExecuteAll(ctx, probe.Target{}, catalog)

	g.Expect(executions).To(HaveLen(2))
	g.Expect(executions[0].Outcome.Status).To(Equal(probe.StatusSuccess))
	g.Expect(executions[1].Outcome.Status).To(Equal(probe.StatusFailure))
	g.Expect(executions[1].Outcome.Reason).To(Equal("not run: context canceled"))
}

// cancellingProbe cancels the run context from inside its own action, the
// shape of a deadline expiring mid-battery.
type cancellingProbe struct {
	probe.BaseProbe

	cancel context.CancelFunc
}

func (p *cancellingProbe) Run(_ context.Context, _ probe.Target) (*probe.Outcome, error) {
	p.cancel()

	return probe.Successf("done"), nil
}
