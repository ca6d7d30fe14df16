package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/cpkg/pkg/registry"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PackageListModel - Interactive package selection
// =============================================================================

// PackageItem is one row of the package picker.
type PackageItem struct {
	Name        string
	Description string
	Latest      string
	Installed   bool
}

// PackageListModel is the bubbletea model for interactive package selection.
// Typing narrows the list with fuzzy matching on package names.
type PackageListModel struct {
	Items    []PackageItem
	Filter   string
	Cursor   int // Index into the visible items
	Selected *PackageItem
	Height   int
	Offset   int
	visible  []int
}

// NewPackageListModel creates a picker over every package in cat.
func NewPackageListModel(cat *registry.Catalog, installed func(string) bool) PackageListModel {
	items := make([]PackageItem, 0, cat.Len())
	for _, name := range cat.Names() {
		d, _ := cat.Lookup(name)
		latest, _ := d.Latest()
		items = append(items, PackageItem{
			Name:        name,
			Description: d.Description,
			Latest:      latest,
			Installed:   installed(name),
		})
	}
	m := PackageListModel{Items: items, Height: 15}
	m.applyFilter()
	return m
}

// Visible returns the items matching the current filter.
func (m PackageListModel) Visible() []PackageItem {
	out := make([]PackageItem, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.Items[idx]
	}
	return out
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.Filter == "" {
				return m, tea.Quit
			}
			m.Filter = ""
			m.applyFilter()
		case tea.KeyUp, tea.KeyCtrlP:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown, tea.KeyCtrlN:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			item := m.Items[m.visible[m.Cursor]]
			m.Selected = &item
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *PackageListModel) applyFilter() {
	m.Cursor, m.Offset = 0, 0
	m.visible = nil
	if m.Filter == "" {
		for i := range m.Items {
			m.visible = append(m.visible, i)
		}
		return
	}

	names := make([]string, len(m.Items))
	for i, it := range m.Items {
		names[i] = it.Name
	}
	for _, match := range fuzzy.Find(m.Filter, names) {
		m.visible = append(m.visible, match.Index)
	}
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Package"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ install  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("> ") + m.Filter)
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[m.visible[i]]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if it.Installed {
			mark = iconSuccess
		}
		latest := it.Latest
		if latest == "" {
			latest = "—"
		}
		rows = append(rows, []string{cursor, it.Name, it.Description, latest, mark})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Description", "Latest", "Installed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if m.Items[m.visible[idx]].Installed {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching packages"))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))
	}

	return b.String()
}
