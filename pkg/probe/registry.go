package probe

import (
	"fmt"
)

// Catalog is the ordered registry of probes. Registration order is execution
// order and report order; the catalog is assembled once at startup and never
// mutated during a run.
type Catalog struct {
	probes []Probe
	index  map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		index: make(map[string]int),
	}
}

// Register appends a probe to the catalog.
// Returns an error if a probe with the same ID is already registered.
func (c *Catalog) Register(p Probe) error {
	if _, exists := c.index[p.ID()]; exists {
		return fmt.Errorf("probe with ID %s already registered", p.ID())
	}

	c.index[p.ID()] = len(c.probes)
	c.probes = append(c.probes, p)

	return nil
}

// MustRegister registers a probe and panics on duplicate IDs.
// Catalog assembly is startup-time wiring; a duplicate is a programming error.
func (c *Catalog) MustRegister(p Probe) {
	if err := c.Register(p); err != nil {
		panic(err)
	}
}

// List returns all probes in registration order.
func (c *Catalog) List() []Probe {
	result := make([]Probe, len(c.probes))
	copy(result, c.probes)

	return result
}

// Get looks up a probe by ID.
func (c *Catalog) Get(id string) (Probe, bool) {
	i, exists := c.index[id]
	if !exists {
		return nil, false
	}

	return c.probes[i], true
}

// Len returns the number of registered probes.
func (c *Catalog) Len() int {
	return len(c.probes)
}
