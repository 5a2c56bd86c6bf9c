package probe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/lburgazzoli/kube-triage/pkg/probe"

	. "github.com/onsi/gomega"
)

// staticProbe is a minimal fixture probe returning a fixed outcome.
type staticProbe struct {
	probe.BaseProbe

	outcome *probe.Outcome
	err     error
}

func newStaticProbe(id string, outcome *probe.Outcome, err error) *staticProbe {
	return &staticProbe{
		BaseProbe: probe.BaseProbe{
			ProbeID:      id,
			ProbeName:    "Static :: " + id,
			ProbeSection: probe.SectionNodes,
		},
		outcome: outcome,
		err:     err,
	}
}

func (p *staticProbe) Run(_ context.Context, _ probe.Target) (*probe.Outcome, error) {
	return p.outcome, p.err
}

func TestCatalogPreservesRegistrationOrder(t *testing.T) {
	g := NewWithT(t)

	catalog := probe.NewCatalog()
	for i := range 5 {
		g.Expect(catalog.Register(newStaticProbe(fmt.Sprintf("p-%d", i), probe.Success(), nil))).To(Succeed())
	}

	g.Expect(catalog.Len()).To(Equal(5))

	listed := catalog.List()
	for i, p := range listed {
		g.Expect(p.ID()).To(Equal(fmt.Sprintf("p-%d", i)))
	}
}

func TestCatalogRejectsDuplicateIDs(t *testing.T) {
	g := NewWithT(t)

	catalog := probe.NewCatalog()
	g.Expect(catalog.Register(newStaticProbe("dup", probe.Success(), nil))).To(Succeed())

	err := catalog.Register(newStaticProbe("dup", probe.Success(), nil))
	g.Expect(err).To(MatchError(ContainSubstring("already registered")))
	g.Expect(catalog.Len()).To(Equal(1))
}

func TestCatalogGet(t *testing.T) {
	g := NewWithT(t)

	catalog := probe.NewCatalog()
	catalog.MustRegister(newStaticProbe("known", probe.Success(), nil))

	p, found := catalog.Get("known")
	g.Expect(found).To(BeTrue())
	g.Expect(p.ID()).To(Equal("known"))

	_, found = catalog.Get("unknown")
	g.Expect(found).To(BeFalse())
}

func TestCatalogMustRegisterPanicsOnDuplicate(t *testing.T) {
	g := NewWithT(t)

	catalog := probe.NewCatalog()
	catalog.MustRegister(newStaticProbe("dup", probe.Success(), nil))

	g.Expect(func() {
		catalog.MustRegister(newStaticProbe("dup", probe.Success(), nil))
	}).To(Panic())
}

func TestCatalogListReturnsCopy(t *testing.T) {
	g := NewWithT(t)

	catalog := probe.NewCatalog()
	catalog.MustRegister(newStaticProbe("a", probe.Success(), nil))
	catalog.MustRegister(newStaticProbe("b", probe.Success(), nil))

	listed := catalog.List()
	listed[0] = newStaticProbe("mutated", probe.Success(), nil)

	g.Expect(catalog.List()[0].ID()).To(Equal("a"))
}
