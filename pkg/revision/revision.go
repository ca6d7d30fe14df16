// Package revision maps a requested version label to a concrete source-control
// revision.
//
// Resolution is total: it always yields a revision string and never fails.
// Whether that revision exists is for the checkout step to find out.
//
//  1. The requested label, if the descriptor maps it.
//  2. Otherwise the descriptor's "latest" alias.
//  3. Otherwise the default branch.
package revision

import (
	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/registry"
)

// Resolver resolves version labels against package descriptors.
type Resolver struct {
	DefaultBranch string
}

// New returns a Resolver falling back to branch. An empty branch means
// [config.DefaultBranch].
func New(branch string) Resolver {
	if branch == "" {
		branch = config.DefaultBranch
	}
	return Resolver{DefaultBranch: branch}
}

// Resolve returns the revision to check out for d at the requested label.
// An empty label is treated as "latest".
func (r Resolver) Resolve(d registry.Descriptor, requested string) string {
	if requested == "" {
		requested = registry.LatestLabel
	}
	if rev, ok := d.Revision(requested); ok {
		return rev
	}
	if rev, ok := d.Latest(); ok {
		return rev
	}
	if r.DefaultBranch == "" {
		return config.DefaultBranch
	}
	return r.DefaultBranch
}

// Resolve resolves with the built-in default branch.
func Resolve(d registry.Descriptor, requested string) string {
	return New("").Resolve(d, requested)
}
