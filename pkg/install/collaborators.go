package install

import "context"

// Checkout clones and updates working copies.
type Checkout interface {
	// Clone clones url into path. path does not exist yet.
	Clone(ctx context.Context, url, path string) error
	// Pull fetches and merges remote changes into the working copy at path.
	Pull(ctx context.Context, path string) error
	// Checkout checks out revision in the working copy at path.
	Checkout(ctx context.Context, path, revision string) error
	// IsRepo reports whether path holds a working copy.
	IsRepo(path string) bool
}

// BuildConfig wires installed packages into the project's build file.
type BuildConfig interface {
	// DetectPrimaryTarget returns the build file's executable target. It
	// returns a BUILD_INTEGRATION_SKIPPED error when the file is missing or
	// declares no target.
	DetectPrimaryTarget() (string, error)
	// Integrate links package name into target. It returns a
	// BUILD_INTEGRATION_SKIPPED error when there is nothing to do.
	Integrate(name, target string) error
}
