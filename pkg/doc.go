// Package pkg provides the libraries behind the cpkg source-dependency installer.
//
// # Overview
//
// cpkg installs C and C++ libraries from source into a CMake project. A
// registry document names each package's git repository, its version labels
// and its dependencies. The pkg directory is organized by concern:
//
//  1. [registry] - Fetching and parsing the registry into an immutable catalog
//  2. [revision] - Mapping version labels to concrete git revisions
//  3. [install] - The dependency walk, visited set and per-run report
//  4. [vcs/git] - Working copy management through the git binary
//  5. [buildconf/cmake] - Linking installed packages into CMakeLists.txt
//  6. [depgraph] - Dependency closure rendering (DOT, SVG)
//
// Supporting packages: [config], [errors], [httputil], [observability] and
// [buildinfo].
//
// # Architecture
//
// The data flow of one install:
//
//	Registry (HTTP or file; JSON, YAML or TOML)
//	         ↓
//	    [registry] Client.LoadCatalog
//	         ↓
//	    [install] Installer.Install (dependencies first)
//	         ↓        ↘
//	    [vcs/git]     [buildconf/cmake]
//	    clone/pull    append add_subdirectory
//	         ↓
//	    libs/<package> + patched CMakeLists.txt
//
// # Quick Start
//
//	cfg, _ := config.Load(config.FileName)
//	cat, err := registry.NewClient(cfg, logger).LoadCatalog(ctx)
//	if err != nil {
//	    return err
//	}
//	inst := install.New(cfg, git.New(logger), cmake.New(cfg), logger)
//	report := inst.Install(ctx, cat, "spdlog", "latest")
//	if err := report.Err(); err != nil {
//	    return err
//	}
package pkg
