package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// Package names become directory names under the vendor root and CMake
// identifiers, so anything that could escape the vendor root is rejected:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPackage, "package name cannot be %q", name)
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// scpLikeRe matches scp-style git remotes such as git@github.com:owner/repo.git.
var scpLikeRe = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:.+$`)

// ValidateRepoURL validates a repository location accepted by git clone.
// Accepted forms are http(s), ssh, git and file URLs, scp-style remotes and
// absolute filesystem paths.
func ValidateRepoURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return New(ErrCodeInvalidInput, "repository URL cannot be empty")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "repository URL contains invalid characters")
		}
	}

	// A leading dash would be parsed by git as an option.
	if strings.HasPrefix(rawURL, "-") {
		return New(ErrCodeInvalidInput, "repository URL cannot start with '-'")
	}

	for _, scheme := range []string{"https://", "http://", "ssh://", "git://", "file://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	if scpLikeRe.MatchString(rawURL) || strings.HasPrefix(rawURL, "/") {
		return nil
	}

	return New(ErrCodeInvalidInput, "unsupported repository URL: %q", rawURL)
}

// ValidateRevision validates a revision passed to git checkout.
func ValidateRevision(rev string) error {
	if rev == "" {
		return New(ErrCodeInvalidInput, "revision cannot be empty")
	}
	if strings.HasPrefix(rev, "-") {
		return New(ErrCodeInvalidInput, "revision cannot start with '-'")
	}
	for _, r := range rev {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "revision contains invalid characters")
		}
	}
	return nil
}
