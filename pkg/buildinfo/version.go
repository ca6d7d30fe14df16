// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/cpkg/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/cpkg/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/cpkg/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/cpkg
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s %s/%s",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Template returns the version template string for cobra.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

// UserAgent identifies cpkg in registry requests, e.g. "cpkg/v1.2.3 (linux/amd64)".
func UserAgent() string {
	return fmt.Sprintf("cpkg/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
