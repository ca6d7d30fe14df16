package install

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/observability"
	"github.com/matzehuels/cpkg/pkg/registry"
	"github.com/matzehuels/cpkg/pkg/revision"
)

// errFailedEarlier is returned when a walk meets a package that already
// failed in this run. It is never added to the report.
var errFailedEarlier = stderrors.New("failed earlier in this run")

// Installer installs packages and their dependency closures.
// It holds no per-run state; every call gets its own Set.
type Installer struct {
	vendorRoot string
	resolver   revision.Resolver
	checkout   Checkout
	build      BuildConfig
	logger     *log.Logger
}

// New creates an Installer writing working copies under cfg.VendorRoot.
// build may be nil, in which case build integration is always skipped.
// If logger is nil, log.Default() is used.
func New(cfg config.Config, checkout Checkout, build BuildConfig, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.Default()
	}
	return &Installer{
		vendorRoot: cfg.VendorRoot,
		resolver:   revision.New(cfg.DefaultBranch),
		checkout:   checkout,
		build:      build,
		logger:     logger,
	}
}

// Path returns the working copy location for a package.
func (i *Installer) Path(name string) string {
	return filepath.Join(i.vendorRoot, name)
}

// IsInstalled reports whether the vendor root holds a working copy of name.
// A directory that is not a working copy does not count.
func (i *Installer) IsInstalled(name string) bool {
	return i.checkout.IsRepo(i.Path(name))
}

// Install installs name at the requested version label together with its
// transitive dependencies. Per-package failures are collected in the
// returned report instead of aborting the walk.
func (i *Installer) Install(ctx context.Context, cat *registry.Catalog, name, version string) *Report {
	r := i.newRun(ctx, cat, name, version)
	r.logger.Debug("install started", "package", name, "version", r.report.Version)
	_ = r.installRec(name, r.report.Version)
	return r.report
}

// Update converges an existing working copy to the requested version label.
// Dependencies are not walked and the build file is not touched.
func (i *Installer) Update(ctx context.Context, cat *registry.Catalog, name, version string) *Report {
	r := i.newRun(ctx, cat, name, version)

	d, ok := cat.Lookup(name)
	if !ok {
		r.report.fail(name, unknownPackage(name))
		return r.report
	}

	path := i.Path(name)
	if !i.IsInstalled(name) {
		r.report.fail(name, errors.New(errors.ErrCodeNotInstalled, "%s is not installed; run 'cpkg install %s' first", name, name))
		return r.report
	}

	start := time.Now()
	observability.Install().OnPackageStart(ctx, name, r.report.Version)
	rev := i.resolver.Resolve(d, r.report.Version)

	r.logger.Info("updating", "package", name, "revision", rev)
	err := i.update(ctx, path, rev)
	observability.Install().OnPackageDone(ctx, observability.PackageEvent{
		Name: name, Version: r.report.Version, Revision: rev, Action: string(ActionUpdated),
		Duration: time.Since(start), Err: err,
	})
	if err != nil {
		r.set.mark(name, Failed)
		r.report.fail(name, err)
		return r.report
	}

	r.set.mark(name, Installed)
	r.report.Installed = append(r.report.Installed, Result{
		Name:     name,
		Version:  r.report.Version,
		Revision: rev,
		Path:     path,
		Action:   ActionUpdated,
	})
	return r.report
}

// run carries the state of one top-level command.
type run struct {
	ctx    context.Context
	inst   *Installer
	cat    *registry.Catalog
	set    *Set
	report *Report
	logger *log.Logger
}

func (i *Installer) newRun(ctx context.Context, cat *registry.Catalog, name, version string) *run {
	if version == "" {
		version = registry.LatestLabel
	}
	id := uuid.NewString()
	set := NewSet()
	return &run{
		ctx:  ctx,
		inst: i,
		cat:  cat,
		set:  set,
		report: &Report{
			ID:      id,
			Root:    name,
			Version: version,
			Set:     set,
		},
		logger: i.logger.With("run", id[:8]),
	}
}

func (r *run) installRec(name, version string) error {
	if r.interrupted() {
		return r.report.stopped
	}
	if st, ok := r.set.State(name); ok {
		if st == Failed {
			return errFailedEarlier
		}
		if st == Visiting {
			r.logger.Debug("dependency cycle", "package", name)
		}
		return nil
	}

	d, ok := r.cat.Lookup(name)
	if !ok {
		err := unknownPackage(name)
		r.logger.Error("unknown package", "package", name)
		r.report.fail(name, err)
		return err
	}

	start := time.Now()
	observability.Install().OnPackageStart(r.ctx, name, version)
	r.set.mark(name, Visiting)

	var failed []string
	for _, dep := range d.Dependencies {
		if err := r.installRec(dep, registry.LatestLabel); err != nil {
			if r.interrupted() {
				return r.report.stopped
			}
			failed = append(failed, dep)
		}
	}
	if len(failed) > 0 {
		err := errors.New(errors.ErrCodeDependencyFailed, "%s not installed: dependencies failed: %s", name, strings.Join(failed, ", "))
		return r.failPackage(name, "", start, err)
	}

	res, err := r.inst.materialize(r.ctx, d, version, r.logger)
	if err != nil {
		return r.failPackage(name, res.Revision, start, err)
	}

	res.Integrated, err = r.integrate(name)
	if err != nil {
		return r.failPackage(name, res.Revision, start, err)
	}

	r.set.mark(name, Installed)
	r.report.Installed = append(r.report.Installed, res)
	observability.Install().OnPackageDone(r.ctx, observability.PackageEvent{
		Name: name, Version: version, Revision: res.Revision, Action: string(res.Action),
		Duration: time.Since(start),
	})
	r.logger.Info("installed", "package", name, "revision", res.Revision, "action", res.Action)
	return nil
}

// interrupted records and reports whether the run's context is done.
func (r *run) interrupted() bool {
	if err := r.ctx.Err(); err != nil {
		if r.report.stopped == nil {
			r.logger.Warn("install interrupted", "err", err)
		}
		r.report.stopped = err
		return true
	}
	return false
}

func (r *run) failPackage(name, rev string, start time.Time, err error) error {
	r.set.mark(name, Failed)
	r.report.fail(name, err)
	observability.Install().OnPackageDone(r.ctx, observability.PackageEvent{
		Name: name, Revision: rev, Duration: time.Since(start), Err: err,
	})
	r.logger.Error("install failed", "package", name, "err", err)
	return err
}

// materialize brings the working copy of d to the resolved revision.
func (i *Installer) materialize(ctx context.Context, d registry.Descriptor, version string, logger *log.Logger) (Result, error) {
	res := Result{
		Name:     d.Name,
		Version:  version,
		Revision: i.resolver.Resolve(d, version),
		Path:     i.Path(d.Name),
	}

	if i.IsInstalled(d.Name) {
		res.Action = ActionUpdated
		logger.Info("updating", "package", d.Name, "revision", res.Revision)
		return res, i.update(ctx, res.Path, res.Revision)
	}

	res.Action = ActionCloned
	logger.Info("cloning", "package", d.Name, "url", d.URL, "revision", res.Revision)
	if err := os.MkdirAll(i.vendorRoot, 0o755); err != nil {
		return res, errors.Wrap(errors.ErrCodeCheckoutFailed, err, "create vendor root %s", i.vendorRoot)
	}
	if err := i.checkout.Clone(ctx, d.URL, res.Path); err != nil {
		return res, errors.Wrap(errors.ErrCodeCheckoutFailed, err, "clone %s", d.URL)
	}
	if err := i.checkout.Checkout(ctx, res.Path, res.Revision); err != nil {
		return res, errors.Wrap(errors.ErrCodeCheckoutFailed, err, "checkout %s in %s", res.Revision, res.Path)
	}
	return res, nil
}

func (i *Installer) update(ctx context.Context, path, rev string) error {
	if err := i.checkout.Pull(ctx, path); err != nil {
		return errors.Wrap(errors.ErrCodeCheckoutFailed, err, "pull %s", path)
	}
	if err := i.checkout.Checkout(ctx, path, rev); err != nil {
		return errors.Wrap(errors.ErrCodeCheckoutFailed, err, "checkout %s in %s", rev, path)
	}
	return nil
}

// integrate reports whether the build file was patched. Skips are recorded
// as diagnostics and do not fail the package.
func (r *run) integrate(name string) (bool, error) {
	build := r.inst.build
	if build == nil {
		r.report.note(name, errors.New(errors.ErrCodeBuildIntegrationSkipped, "no build configuration"))
		return false, nil
	}

	target, err := build.DetectPrimaryTarget()
	if err == nil {
		err = build.Integrate(name, target)
	}
	switch {
	case err == nil:
		r.logger.Debug("integrated", "package", name, "target", target)
		return true, nil
	case errors.SeverityOf(err) == errors.SeverityNotice:
		r.logger.Warn("build integration skipped", "package", name, "reason", errors.UserMessage(err))
		r.report.note(name, err)
		return false, nil
	default:
		return false, errors.Wrap(errors.ErrCodeBuildIntegration, err, "integrate %s", name)
	}
}

func unknownPackage(name string) error {
	return errors.New(errors.ErrCodeUnknownPackage, "package %q not found in registry", name)
}
