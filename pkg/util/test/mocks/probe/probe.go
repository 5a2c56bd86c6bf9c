package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
)

// MockProbe is a mock implementation of probe.Probe interface using testify/mock.
type MockProbe struct {
	mock.Mock
}

// NewMockProbe creates a new MockProbe instance.
func NewMockProbe() *MockProbe {
	return &MockProbe{}
}

func (m *MockProbe) ID() string {
	args := m.Called()

	return args.String(0)
}

func (m *MockProbe) Name() string {
	args := m.Called()

	return args.String(0)
}

func (m *MockProbe) Section() probe.Section {
	args := m.Called()
	section, ok := args.Get(0).(probe.Section)
	if !ok {
		return probe.SectionConnectivity
	}

	return section
}

func (m *MockProbe) CanApply(ctx context.Context, target probe.Target) (bool, string) {
	args := m.Called(ctx, target)

	return args.Bool(0), args.String(1)
}

func (m *MockProbe) Run(ctx context.Context, target probe.Target) (*probe.Outcome, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	outcome, ok := args.Get(0).(*probe.Outcome)
	if !ok {
		return nil, args.Error(1)
	}

	return outcome, args.Error(1)
}
