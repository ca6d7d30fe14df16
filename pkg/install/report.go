package install

import (
	"github.com/matzehuels/cpkg/pkg/errors"
)

// Action describes what happened to a working copy.
type Action string

const (
	ActionCloned  Action = "cloned"
	ActionUpdated Action = "updated"
)

// Result describes one successfully installed package.
type Result struct {
	Name       string
	Version    string // Requested label
	Revision   string // Resolved revision
	Path       string // Working copy location
	Action     Action
	Integrated bool // Build file was patched in this run
}

// Problem ties an error to a package.
type Problem struct {
	Name string
	Err  error
}

// Report is the outcome of one install or update command.
type Report struct {
	ID          string // Run identifier
	Root        string // Requested package
	Version     string // Requested label
	Installed   []Result
	Failures    []Problem
	Diagnostics []Problem // Non-fatal notes such as skipped build integration
	Set         *Set

	// stopped holds the context error that cut the walk short.
	stopped error
}

// Interrupted reports whether the walk stopped early because its context
// was cancelled. Packages not reached are neither installed nor failed.
func (r *Report) Interrupted() bool { return r.stopped != nil }

// OK reports whether the requested package was installed.
func (r *Report) OK() bool {
	st, ok := r.Set.State(r.Root)
	return ok && st == Installed
}

// Err returns nil when the requested package was installed, otherwise the
// most specific failure recorded for it.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	for _, f := range r.Failures {
		if f.Name == r.Root {
			return f.Err
		}
	}
	if r.stopped != nil {
		return r.stopped
	}
	return errors.New(errors.ErrCodeInternal, "%s was not installed", r.Root)
}

// Result returns the result for name, if it was installed.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Installed {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

func (r *Report) fail(name string, err error) {
	r.Failures = append(r.Failures, Problem{Name: name, Err: err})
}

func (r *Report) note(name string, err error) {
	r.Diagnostics = append(r.Diagnostics, Problem{Name: name, Err: err})
}
