// Package install walks a package's dependency graph and materializes every
// package of the closure into the vendor root.
//
// # Algorithm
//
// [Installer.Install] runs a depth-first walk from the requested package:
//
//  1. A package already in the run's [Set] is skipped. This is what makes
//     diamond dependencies install once and breaks dependency cycles.
//  2. A package missing from the catalog is reported as UNKNOWN_PACKAGE and
//     nothing is touched for it.
//  3. Dependencies are installed first, in listed order, at "latest".
//  4. The requested label is resolved to a revision ([revision.Resolver]).
//  5. An existing working copy is pulled and checked out; otherwise the
//     repository is cloned and checked out.
//  6. The package is wired into the build file.
//  7. Only then is the package marked installed.
//
// Failures are local. A failed dependency does not stop its siblings, but its
// dependents are reported as DEPENDENCY_FAILED and their working copies are
// never touched. Nothing is rolled back.
//
// # Collaborators
//
// The installer drives two collaborators through small interfaces:
// [Checkout] (implemented by package vcs/git) and [BuildConfig]
// (implemented by package buildconf/cmake).
//
// # Usage
//
//	inst := install.New(cfg, git.New(logger), cmake.New(cfg), logger)
//	report := inst.Install(ctx, catalog, "spdlog", "latest")
//	if err := report.Err(); err != nil {
//	    // the requested package did not install
//	}
package install
