package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cpkg/pkg/depgraph"
	"github.com/matzehuels/cpkg/pkg/errors"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <package>",
		Short: "Show the dependency closure of a package",
		Long: `Print the dependency closure of a package as a Graphviz DOT document
or render it to SVG. Dependencies missing from the registry are drawn dashed.`,
		Example: `  cpkg graph spdlog
  cpkg graph spdlog --format svg -o spdlog.svg`,
		Args:              usageArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: c.completePackages,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidatePackageName(args[0]); err != nil {
				return err
			}
			format = strings.ToLower(format)
			if format != formatDOT && format != formatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (use dot or svg)", format)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			g, err := depgraph.Build(cat, args[0])
			if err != nil {
				return err
			}
			for _, id := range g.Missing() {
				c.Logger.Warn("dependency not in registry", "package", id)
			}

			out := []byte(depgraph.ToDOT(g, depgraph.Options{Detailed: detailed}))
			if format == formatSVG {
				if out, err = depgraph.RenderSVG(cmd.Context(), string(out)); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := c.out.w.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.out.success("Wrote %d packages", len(g.Nodes()))
			c.out.file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include latest revisions in node labels")
	return cmd
}
