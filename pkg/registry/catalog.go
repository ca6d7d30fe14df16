package registry

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"
)

// LatestLabel is the version label that aliases a package's newest revision.
const LatestLabel = "latest"

// Descriptor describes one installable package.
type Descriptor struct {
	Name         string            // Unique package name (catalog key)
	Description  string            // One-line summary, may be empty
	URL          string            // Repository location passed to git clone
	Versions     map[string]string // Version label -> revision
	Dependencies []string          // Direct dependency names, in install order
}

// Revision returns the revision mapped to label, if any.
func (d Descriptor) Revision(label string) (string, bool) {
	rev, ok := d.Versions[label]
	return rev, ok
}

// Latest returns the revision of the "latest" alias, if present.
func (d Descriptor) Latest() (string, bool) {
	return d.Revision(LatestLabel)
}

// Labels returns the version labels in sorted order.
func (d Descriptor) Labels() []string {
	return slices.Sorted(maps.Keys(d.Versions))
}

func (d Descriptor) clone() Descriptor {
	d.Versions = maps.Clone(d.Versions)
	d.Dependencies = slices.Clone(d.Dependencies)
	return d
}

// Catalog is the immutable set of descriptors loaded from a registry.
type Catalog struct {
	packages map[string]Descriptor
	warnings []string
}

// NewCatalog builds a catalog from descriptors. A later descriptor with the
// same name replaces an earlier one.
func NewCatalog(descs ...Descriptor) *Catalog {
	c := &Catalog{packages: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		c.packages[d.Name] = d.clone()
	}
	c.warnings = lint(c.packages)
	return c
}

// Lookup returns a copy of the descriptor for name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.packages[name]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.packages[name]
	return ok
}

// Names returns all package names in sorted order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.packages))
}

// Len returns the number of packages.
func (c *Catalog) Len() int {
	return len(c.packages)
}

// Suggest returns up to limit package names that fuzzily match name, best
// match first. It backs "did you mean" hints for unknown packages.
func (c *Catalog) Suggest(name string, limit int) []string {
	matches := fuzzy.Find(name, c.Names())
	var out []string
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Warnings returns non-fatal problems found while loading, such as a package
// with pinned versions but no "latest" alias.
func (c *Catalog) Warnings() []string {
	return slices.Clone(c.warnings)
}

func lint(pkgs map[string]Descriptor) []string {
	var warnings []string
	for _, name := range slices.Sorted(maps.Keys(pkgs)) {
		d := pkgs[name]
		if _, ok := d.Latest(); !ok && len(d.Versions) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: versions has no %q entry; installs fall back to the default branch", name, LatestLabel))
		}
		for _, dep := range d.Dependencies {
			if _, ok := pkgs[dep]; !ok {
				warnings = append(warnings, fmt.Sprintf("%s: dependency %q is not in the registry", name, dep))
			}
		}
	}
	return warnings
}
