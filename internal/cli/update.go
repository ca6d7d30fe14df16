package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <package> [version]",
		Short: "Update an installed package",
		Long: `Pull the latest changes for an installed package and check out the
requested version. Dependencies and the build file are left alone.`,
		Example: `  cpkg update fmt
  cpkg update fmt v10.2.0`,
		Args:              usageArgs(cobra.RangeArgs(1, 2)),
		ValidArgsFunction: c.completePackages,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, version, err := packageArgs(args)
			if err != nil {
				return err
			}
			return c.runUpdate(cmd.Context(), name, version)
		},
	}
}

func (c *CLI) runUpdate(ctx context.Context, name, version string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cat, err := c.loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	c.out.info("Updating %s %s", StyleHighlight.Render(name), StyleDim.Render(version))
	start := time.Now()
	report := c.newInstaller(cfg).Update(ctx, cat, name, version)
	c.out.report(report)

	if err := ctx.Err(); err != nil {
		return err
	}
	return c.finish(cat, report, start, "Updated")
}
