// Package report prints generation progress and the final summary.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/example/go-chimegen/internal/chime"
)

// Printer writes human-readable progress lines. Colors are dropped
// automatically when w is not a terminal.
type Printer struct {
	w        io.Writer
	interval time.Duration

	ok     lipgloss.Style
	fail   lipgloss.Style
	title  lipgloss.Style
	muted  lipgloss.Style
	bullet lipgloss.Style
}

func NewPrinter(w io.Writer, interval time.Duration) *Printer {
	r := lipgloss.NewRenderer(w)

	return &Printer{
		w:        w,
		interval: interval,
		ok:       r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		fail:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		title:    r.NewStyle().Bold(true),
		muted:    r.NewStyle().Faint(true),
		bullet:   r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Start announces the run.
func (p *Printer) Start(baseSample, outputDir string) {
	fmt.Fprintf(p.w, "%s\n%s\n\n",
		p.title.Render("Generating hourly chime audio"),
		p.muted.Render(fmt.Sprintf("%s -> %s", baseSample, outputDir)),
	)
}

// Generated reports one finished output.
func (p *Printer) Generated(out chime.Output) {
	fmt.Fprintf(p.w, "%s generated: %s %s\n", p.ok.Render("✓"), out.Name, p.muted.Render(Describe(out, p.interval)))
}

// Planned reports an output a dry run would write, with the command that
// would produce it when one is needed.
func (p *Printer) Planned(out chime.Output, command string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.bullet.Render("•"), out.Path, p.muted.Render(Describe(out, p.interval)))
	if command != "" {
		fmt.Fprintf(p.w, "    %s\n", p.muted.Render(command))
	}
}

// Summary lists every generated file.
func (p *Printer) Summary(outs []chime.Output) {
	fmt.Fprintf(p.w, "\n%s\n\n%s\n", p.title.Render("All done!"), "Generated files:")
	for _, out := range outs {
		fmt.Fprintf(p.w, "  %s %s %s\n", p.bullet.Render("-"), out.Name, p.muted.Render(Describe(out, 0)))
	}
}

// Error reports a failed run.
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.w, "%s error: %v\n", p.fail.Render("✗"), err)
}

// Describe is the parenthesized note after an output's name. A zero interval
// omits the spacing.
func Describe(out chime.Output, interval time.Duration) string {
	switch {
	case out.Quarter:
		return "(quarter hour)"
	case out.Count == 1:
		return "(1 strike)"
	case interval > 0:
		return fmt.Sprintf("(%d strikes, %dms apart)", out.Count, interval.Milliseconds())
	default:
		return fmt.Sprintf("(%d strikes)", out.Count)
	}
}
