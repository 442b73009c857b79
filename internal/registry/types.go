// Package registry loads the component registry manifest into an in-memory
// catalog.
package registry

import "sort"

// DefaultPrefix is the registry-root path segment that manifest paths start
// with and that is stripped when files are rebased into a target directory.
const DefaultPrefix = "registry"

// Component describes one installable unit.
type Component struct {
	// Name matches the component's catalog key.
	Name string `json:"name,omitempty"`

	// Description is display text only.
	Description string `json:"description"`

	// Files are the primary artifacts, relative to the catalog root.
	Files []string `json:"files"`

	// Dependencies are names of other components, resolved by catalog lookup.
	Dependencies []string `json:"dependencies,omitempty"`

	// Styles are auxiliary assets installed after Files.
	Styles []string `json:"styles,omitempty"`
}

// manifest is the on-disk document shape.
type manifest struct {
	Name       string                `json:"name,omitempty"`
	Version    string                `json:"version,omitempty"`
	Components map[string]*Component `json:"components"`
	BaseStyles []string              `json:"baseStyles"`
}

// Catalog is a parsed registry. It is not modified after Load returns.
type Catalog struct {
	// Name and Version are informational manifest metadata.
	Name    string
	Version string

	// Components maps component name to descriptor.
	Components map[string]*Component

	// BaseStyles are shared assets installed on request, in manifest order.
	BaseStyles []string

	// Root is the directory containing the manifest. Manifest paths are
	// relative to it.
	Root string

	// Prefix is the registry-root segment stripped from paths on install.
	Prefix string
}

// Lookup returns the named component.
func (c *Catalog) Lookup(name string) (*Component, bool) {
	comp, ok := c.Components[name]
	return comp, ok
}

// Names returns every component name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Components))
	for name := range c.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns every component ordered by name.
func (c *Catalog) Sorted() []*Component {
	names := c.Names()
	comps := make([]*Component, 0, len(names))
	for _, name := range names {
		comps = append(comps, c.Components[name])
	}
	return comps
}
