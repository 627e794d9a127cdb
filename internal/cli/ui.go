package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/session"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().PaddingRight(1)
	styleCurrent = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).PaddingRight(1)

	stylePromptHere    = lipgloss.NewStyle().Foreground(colorGreen)
	stylePromptNowhere = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconHere    = "●"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled output lines to one writer.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *printer) success(format string, args ...any) {
	p.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p *printer) error(format string, args ...any) {
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

func (p *printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (p *printer) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	p.line(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

func (p *printer) title(s string) {
	p.line(StyleTitle.Render(s))
}

func (p *printer) nextStep(description, cmd string) {
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func (p *printer) newline() {
	fmt.Fprintln(p.w)
}

// table prints rows under headers in a rounded box. Rows whose index is in
// highlight are drawn in the accent colour.
func (p *printer) table(headers []string, rows [][]string, highlight map[int]bool) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case highlight[row]:
				return styleCurrent
			default:
				return styleCell
			}
		})
	p.line(t.Render())
}

// =============================================================================
// Domain Output
// =============================================================================

// location prints a location card: name, resources and exits.
func (p *printer) location(info session.LocationInfo) {
	p.newline()
	p.title("Location: " + info.Name)
	p.keyValue("Resources", orNone(strings.Join(info.Resources, ", ")))
	if len(info.Exits) == 0 {
		p.keyValue("Exits", "None")
		return
	}
	p.keyValue("Exits", "")
	for _, exit := range info.Exits {
		p.line("  " + StyleHighlight.Render(fmt.Sprintf("%-6s", exit.Direction)) + " " + StyleDim.Render(iconArrow) + " " + exit.Target)
	}
}

// route prints a step count and the directions of a path.
func (p *printer) route(heading string, path []world.Direction) {
	p.success("%s", heading)
	p.keyValue("Steps", fmt.Sprintf("%d", len(path)))
	if len(path) == 0 {
		p.keyValue("Directions", "(already there)")
		return
	}
	p.keyValue("Directions", world.FormatDirections(path))
}

// report prints err the way the shell and main show failures.
func (p *printer) report(err error) {
	p.error("%s", errs.UserMessage(err))
}

// PrintError writes err to w as a styled error line.
func PrintError(w io.Writer, err error) {
	newPrinter(w).report(err)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
