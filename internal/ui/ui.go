// Package ui renders the terminal banner and colored status lines. Every
// helper honors a no-color switch so CI logs stay plain.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("36"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Printer writes styled output, or plain text when color is disabled.
type Printer struct {
	out     io.Writer
	enabled bool
}

// New returns a Printer writing to out. enabled toggles styling.
func New(out io.Writer, enabled bool) *Printer {
	return &Printer{out: out, enabled: enabled}
}

// Banner prints the tool banner.
func (p *Printer) Banner() {
	const (
		top = "+--------------------------------------------------------------+"
		mid = "|                  RANKER AGENTIC WORKFLOW                     |"
		bot = "+--------------------------------------------------------------+"
	)
	fmt.Fprintln(p.out, p.style(frameStyle, top))
	fmt.Fprintln(p.out, p.style(titleStyle, mid))
	fmt.Fprintln(p.out, p.style(frameStyle, bot))
}

// Heading prints a bold section line.
func (p *Printer) Heading(text string) {
	fmt.Fprintln(p.out, p.style(headingStyle, text))
}

// Pass prints a success line.
func (p *Printer) Pass(text string) {
	fmt.Fprintln(p.out, p.style(passStyle, text))
}

// Fail prints a failure line.
func (p *Printer) Fail(text string) {
	fmt.Fprintln(p.out, p.style(failStyle, text))
}

// Line prints unstyled text.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}
