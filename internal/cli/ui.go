package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/install"
)

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - package names
	colorGreen  = lipgloss.Color("35")  // Green - installed
	colorYellow = lipgloss.Color("220") // Amber - skipped integration
	colorRed    = lipgloss.Color("167") // Soft red - failures
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for package names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for labels, paths and timings.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for file names.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleRevision for resolved revisions.
	StyleRevision = lipgloss.NewStyle().Foreground(colorGray).Italic(true)

	// StyleWarning for diagnostics.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes user-facing status lines. Logs go to the logger instead.
type printer struct {
	w io.Writer
}

func (p *printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *printer) success(format string, args ...any) {
	p.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p *printer) failure(format string, args ...any) {
	p.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	p.line(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...any) {
	p.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (p *printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints an indented path, e.g. a working copy or an output file.
func (p *printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// hint suggests a follow-up command.
func (p *printer) hint(description, cmd string) {
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// report prints one line per installed package, then diagnostics and
// failures in the order they happened.
func (p *printer) report(r *install.Report) {
	for _, res := range r.Installed {
		p.success("%s %s %s", StyleHighlight.Render(res.Name), StyleDim.Render(string(res.Action)), StyleRevision.Render(res.Revision))
		p.file(res.Path)
	}
	for _, d := range r.Diagnostics {
		p.warning("%s: %s", d.Name, errors.UserMessage(d.Err))
	}
	for _, f := range r.Failures {
		p.failure("%s: %s", StyleHighlight.Render(f.Name), errors.UserMessage(f.Err))
	}
}

// summary prints the closing line of a successful install or update.
func (p *printer) summary(verb string, r *install.Report, start time.Time) {
	p.detail("%s %d package(s) in %s", verb, len(r.Installed), time.Since(start).Round(time.Millisecond))
}
