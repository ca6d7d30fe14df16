package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/registry"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a package interactively and install it",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if cat.Len() == 0 {
				c.out.failure("Registry has no packages")
				return errors.New(errors.ErrCodeInvalidInput, "registry %s has no packages", cfg.RegistryLocation)
			}

			m := NewPackageListModel(cat, c.newInstaller(cfg).IsInstalled)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(PackageListModel)
			if !ok || fm.Selected == nil {
				c.out.detail("No selection made")
				return nil
			}
			return c.install(cmd.Context(), cfg, cat, fm.Selected.Name, registry.LatestLabel)
		},
	}
}
