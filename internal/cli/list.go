package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cpkg/pkg/registry"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages available in the registry",
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

			if plain {
				writePlainList(c.out.w, cat)
				return nil
			}
			c.out.line(renderCatalogTable(cat, c.newInstaller(cfg).IsInstalled))
			c.out.detail("%d packages from %s", cat.Len(), cfg.RegistryLocation)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print an unstyled \"- name: description\" list, sorted by name")
	return cmd
}

// writePlainList writes a header and an unstyled line per package, sorted by
// name.
func writePlainList(w io.Writer, cat *registry.Catalog) {
	fmt.Fprintln(w, "Available packages:")
	for _, name := range cat.Names() {
		d, _ := cat.Lookup(name)
		fmt.Fprintf(w, "- %s: %s\n", name, d.Description)
	}
}

// renderCatalogTable renders the catalog as a bordered table.
func renderCatalogTable(cat *registry.Catalog, installed func(string) bool) string {
	rows := make([][]string, 0, cat.Len())
	for _, name := range cat.Names() {
		d, _ := cat.Lookup(name)
		latest, ok := d.Latest()
		if !ok {
			latest = "—"
		}
		mark := ""
		if installed(name) {
			mark = iconSuccess
		}
		rows = append(rows, []string{name, d.Description, latest, mark})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Description", "Latest", "Installed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorCyan)
			case col == 2:
				return base.Foreground(colorGray)
			case col == 3:
				return base.Foreground(colorGreen)
			}
			return base
		})

	return t.Render()
}
