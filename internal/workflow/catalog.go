// Package workflow implements the department-routing engine for manufacturing
// jobs: a pure derivation of a drawing's current department plus the state
// transitions (process completion, rework, hold, material, sales approval)
// that advance or divert it. The package performs no I/O; callers own
// persistence and must recompute the department cache before every save.
package workflow

import "strings"

// Catalog resolves a process name to the department that performs it.
// Implementations must match case-insensitively.
type Catalog interface {
	Lookup(processName string) (department string, ok bool)
}

// StaticCatalog is an in-memory Catalog keyed by lowercased process name.
type StaticCatalog map[string]string

// NewStaticCatalog builds a catalog from a process→department map.
func NewStaticCatalog(mapping map[string]string) StaticCatalog {
	c := make(StaticCatalog, len(mapping))
	for name, dept := range mapping {
		c[strings.ToLower(strings.TrimSpace(name))] = dept
	}
	return c
}

// Lookup implements Catalog.
func (c StaticCatalog) Lookup(processName string) (string, bool) {
	dept, ok := c[strings.ToLower(strings.TrimSpace(processName))]
	return dept, ok
}
