package transcript

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer prints conversation blocks to a terminal.
type Renderer struct {
	out      io.Writer
	rule     string
	label    lipgloss.Style
	human    lipgloss.Style
	dim      lipgloss.Style
	headline lipgloss.Style
}

// NewRenderer creates a renderer writing to out. Styling is dropped when
// out is not a terminal.
func NewRenderer(out io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(out)
	return &Renderer{
		out:      out,
		rule:     strings.Repeat("═", ruleWidth),
		label:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		human:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		dim:      lr.NewStyle().Faint(true),
		headline: lr.NewStyle().Bold(true),
	}
}

// Message prints one display block: rule, upper-cased label, text, rule.
func (r *Renderer) Message(label, text string) {
	style := r.label
	if label == "USER" {
		style = r.human
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n\n%s\n%s\n", r.rule, style.Render(strings.ToUpper(label)+":"), text, r.rule)
}

// Thinking tells the operator an agent call is in flight.
func (r *Renderer) Thinking(label string) {
	fmt.Fprintln(r.out, r.dim.Render(fmt.Sprintf("\n... %s is thinking ...", label)))
}

// Banner prints a mode headline followed by optional detail lines.
func (r *Renderer) Banner(title string, lines ...string) {
	fmt.Fprintf(r.out, "\n%s\n", r.headline.Render(fmt.Sprintf("--- %s ---", title)))
	for _, line := range lines {
		fmt.Fprintln(r.out, line)
	}
}

// Notice prints a plain line
func (r *Renderer) Notice(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}
