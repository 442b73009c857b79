// Package resolver expands a requested component into its ordered,
// de-duplicated dependency closure.
package resolver

import (
	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/registry"
)

// Resolve returns the components to install for name, dependencies before
// the components that list them, each at most once.
//
// Expansion is depth-first. A name is marked visited when first entered,
// before its dependencies are expanded, and a visited name is skipped without
// error. This ends recursion on cycles, but inside a cycle the first-entered
// member is appended after the members that depend on it.
//
// A missing requested or transitive name aborts the whole resolution with a
// *errors.ComponentNotFoundError; no partial list is returned.
func Resolve(catalog *registry.Catalog, name string) ([]*registry.Component, error) {
	r := &resolver{
		catalog: catalog,
		visited: make(map[string]bool),
	}

	if err := r.visit(name, ""); err != nil {
		return nil, err
	}

	output.Debug("resolved component", "component", name, "count", len(r.order))
	return r.order, nil
}

// resolver holds the state of a single Resolve call.
type resolver struct {
	catalog *registry.Catalog
	visited map[string]bool
	order   []*registry.Component
}

func (r *resolver) visit(name, requiredBy string) error {
	if r.visited[name] {
		return nil
	}

	comp, ok := r.catalog.Lookup(name)
	if !ok {
		return &oerrors.ComponentNotFoundError{
			Name:       name,
			RequiredBy: requiredBy,
			Available:  r.catalog.Names(),
		}
	}
	r.visited[name] = true

	for _, dep := range comp.Dependencies {
		if err := r.visit(dep, name); err != nil {
			return err
		}
	}

	r.order = append(r.order, comp)
	return nil
}

// Names returns the component names of a resolution, in order.
func Names(comps []*registry.Component) []string {
	names := make([]string, len(comps))
	for i, c := range comps {
		names[i] = c.Name
	}
	return names
}
