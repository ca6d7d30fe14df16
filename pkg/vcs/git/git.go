// Package git implements working copy management by shelling out to the git
// binary.
//
// Working copies may end up on a branch or detached at a tag or commit.
// [Git.Pull] only fetches in the detached case, so a later [Git.Checkout] can
// move to any revision the remote knows about. Checking out a branch
// fast-forwards it to its upstream.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Git runs git commands. The zero value uses "git" from PATH and the
// default logger.
type Git struct {
	Binary string
	Logger *log.Logger
}

// New returns a Git that logs through logger.
func New(logger *log.Logger) *Git {
	return &Git{Binary: "git", Logger: logger}
}

// Clone clones url into path.
func (g *Git) Clone(ctx context.Context, url, path string) error {
	_, err := g.run(ctx, "", "clone", "--quiet", "--", url, path)
	return err
}

// Pull fetches from origin including tags. When the working copy is on a
// branch with an upstream, the branch is fast-forwarded.
func (g *Git) Pull(ctx context.Context, path string) error {
	if _, err := g.run(ctx, path, "fetch", "--quiet", "--tags", "--force", "origin"); err != nil {
		return err
	}
	return g.fastForward(ctx, path)
}

// Checkout checks out revision, which may be a branch, tag or commit.
func (g *Git) Checkout(ctx context.Context, path, revision string) error {
	if strings.HasPrefix(revision, "-") {
		return fmt.Errorf("git checkout: invalid revision %q", revision)
	}
	if _, err := g.run(ctx, path, "checkout", "--quiet", revision); err != nil {
		return err
	}
	return g.fastForward(ctx, path)
}

// Head returns the full commit hash checked out in path.
func (g *Git) Head(ctx context.Context, path string) (string, error) {
	return g.run(ctx, path, "rev-parse", "HEAD")
}

// IsRepo reports whether path contains a git working copy.
func (g *Git) IsRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

func (g *Git) fastForward(ctx context.Context, path string) error {
	if _, err := g.run(ctx, path, "symbolic-ref", "--quiet", "HEAD"); err != nil {
		return nil // detached
	}
	if _, err := g.run(ctx, path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"); err != nil {
		return nil // no upstream
	}
	_, err := g.run(ctx, path, "merge", "--quiet", "--ff-only", "@{u}")
	return err
}

// run executes git in dir and returns trimmed stdout. Failures include the
// command's stderr.
func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.CommandContext(ctx, g.binary(), args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger().Debug("git", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[firstVerb(args)], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[firstVerb(args)], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (g *Git) binary() string {
	if g.Binary == "" {
		return "git"
	}
	return g.Binary
}

func (g *Git) logger() *log.Logger {
	if g.Logger == nil {
		return log.Default()
	}
	return g.Logger
}

// firstVerb skips a leading "-C dir".
func firstVerb(args []string) int {
	if len(args) > 2 && args[0] == "-C" {
		return 2
	}
	return 0
}
