package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes the colourised status lines of a sweep. Colour is decided per writer,
// so output sent to a pipe or buffer is plain text.
type Printer struct {
	w io.Writer

	banner    lipgloss.Style
	info      lipgloss.Style
	candidate lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	err       lipgloss.Style
	faint     lipgloss.Style
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:         w,
		banner:    r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		info:      r.NewStyle().Foreground(lipgloss.Color("39")),
		candidate: r.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		success:   r.NewStyle().Foreground(lipgloss.Color("78")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("202")),
		err:       r.NewStyle().Foreground(lipgloss.Color("196")),
		faint:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (p *Printer) line(style lipgloss.Style, format string, a ...any) {
	_, _ = fmt.Fprintln(p.w, style.Render(fmt.Sprintf(format, a...)))
}

// Banner prints a marker line such as the dry-run start and end.
func (p *Printer) Banner(format string, a ...any) { p.line(p.banner, "==> "+format, a...) }

// Info prints a neutral progress line.
func (p *Printer) Info(format string, a ...any) { p.line(p.info, format, a...) }

// Candidate announces a branch that is old enough to be deleted.
func (p *Printer) Candidate(name string, ageDays int) {
	p.line(p.candidate, "%s (%d days old)", name, ageDays)
}

// Success prints a line for a completed action.
func (p *Printer) Success(format string, a ...any) { p.line(p.success, format, a...) }

// Warn prints a line for a skipped or simulated action.
func (p *Printer) Warn(format string, a ...any) { p.line(p.warning, format, a...) }

// Error prints a line for a failed action.
func (p *Printer) Error(format string, a ...any) { p.line(p.err, format, a...) }

// Detail prints secondary information.
func (p *Printer) Detail(format string, a ...any) { p.line(p.faint, "  "+format, a...) }
