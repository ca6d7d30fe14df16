package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/install"
	"github.com/matzehuels/cpkg/pkg/registry"
)

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package> [version]",
		Short: "Install a package and its dependencies",
		Long: `Install a package from the registry into the vendor directory.

Dependencies are installed first, each at its latest revision. Every
installed package is linked into the first add_executable target of the
build file. Packages that are already present are updated in place.`,
		Example: `  cpkg install fmt
  cpkg install spdlog v1.12.0
  cpkg install json --registry ./packages.yaml`,
		Args:              usageArgs(cobra.RangeArgs(1, 2)),
		ValidArgsFunction: c.completePackages,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, version, err := packageArgs(args)
			if err != nil {
				return err
			}
			return c.runInstall(cmd.Context(), name, version)
		},
	}
}

func (c *CLI) runInstall(ctx context.Context, name, version string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cat, err := c.loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	return c.install(ctx, cfg, cat, name, version)
}

func (c *CLI) install(ctx context.Context, cfg config.Config, cat *registry.Catalog, name, version string) error {
	c.out.info("Installing %s %s", StyleHighlight.Render(name), StyleDim.Render(version))
	start := time.Now()
	report := c.newInstaller(cfg).Install(ctx, cat, name, version)
	c.out.report(report)

	if err := ctx.Err(); err != nil {
		return err
	}
	return c.finish(cat, report, start, "Installed")
}

// finish returns the report's error for the requested package, or prints a
// summary when it succeeded.
func (c *CLI) finish(cat *registry.Catalog, r *install.Report, start time.Time, verb string) error {
	if err := r.Err(); err != nil {
		switch errors.GetCode(err) {
		case errors.ErrCodeNotInstalled:
			c.out.hint("Install it first", fmt.Sprintf("%s install %s", appName, r.Root))
		case errors.ErrCodeUnknownPackage:
			if s := cat.Suggest(r.Root, 3); len(s) > 0 {
				c.out.hint("Did you mean", strings.Join(s, ", "))
			}
		}
		return err
	}
	c.out.summary(verb, r, start)
	return nil
}
