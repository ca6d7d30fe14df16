// Package cli implements the cpkg command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/cpkg/pkg/buildconf/cmake"
	"github.com/matzehuels/cpkg/pkg/buildinfo"
	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/install"
	"github.com/matzehuels/cpkg/pkg/observability"
	"github.com/matzehuels/cpkg/pkg/registry"
	"github.com/matzehuels/cpkg/pkg/vcs/git"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "cpkg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    *printer
	flags  globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	registry   string
	vendorDir  string
	buildFile  string
}

// New creates a CLI that logs to w and prints status lines to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    &printer{w: os.Stdout},
	}
}

// SetOutput redirects status lines and command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = &printer{w: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cpkg installs source dependencies into a CMake project",
		Long: `cpkg fetches a package registry, clones packages and their dependencies
into a vendor directory and links them into the project's CMakeLists.txt.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			h := newLogHooks(c.Logger)
			observability.Register(observability.Hooks{Install: h, HTTP: h})
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", config.FileName, "project configuration file")
	pf.StringVar(&c.flags.registry, "registry", "", "registry URL or path (overrides config and $CPKG_REGISTRY)")
	pf.StringVar(&c.flags.vendorDir, "vendor-dir", "", "directory for package working copies (overrides config and $CPKG_VENDOR_DIR)")
	pf.StringVar(&c.flags.buildFile, "build-file", "", "CMake file to patch (overrides config and $CPKG_BUILD_FILE)")

	// Register all subcommands
	root.AddCommand(c.installCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// loadConfig resolves the configuration for this invocation.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.Override(c.flags.registry, c.flags.vendorDir, c.flags.buildFile)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded",
		"registry", cfg.RegistryLocation,
		"vendor_dir", cfg.VendorRoot,
		"build_file", cfg.BuildDescriptorPath)
	return cfg, nil
}

// loadCatalog fetches the registry named in cfg, behind a spinner when
// stderr is a terminal.
func (c *CLI) loadCatalog(ctx context.Context, cfg config.Config) (*registry.Catalog, error) {
	if !stderrIsTerminal() {
		return c.fetchCatalog(ctx, cfg)
	}
	spinner := newSpinner(ctx, os.Stderr, "Fetching registry...")
	spinner.Start()
	defer spinner.Stop()
	return c.fetchCatalog(ctx, cfg)
}

func (c *CLI) fetchCatalog(ctx context.Context, cfg config.Config) (*registry.Catalog, error) {
	return registry.NewClient(cfg, c.Logger).LoadCatalog(ctx)
}

func (c *CLI) newInstaller(cfg config.Config) *install.Installer {
	return install.New(cfg, git.New(c.Logger), cmake.New(cfg), c.Logger)
}

// =============================================================================
// Argument Helpers
// =============================================================================

// usageArgs wraps a positional argument validator so that violations print
// the command's usage and surface as INVALID_INPUT.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			_ = cmd.Usage()
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid arguments")
		}
		return nil
	}
}

// packageArgs returns the package name and version label from
// "<package> [version]" arguments.
func packageArgs(args []string) (name, version string, err error) {
	name, version = args[0], registry.LatestLabel
	if len(args) > 1 {
		version = args[1]
	}
	if err := errors.ValidatePackageName(name); err != nil {
		return "", "", err
	}
	if err := errors.ValidateRevision(version); err != nil {
		return "", "", err
	}
	return name, version, nil
}

// stderrIsTerminal reports whether progress animations can be drawn.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
