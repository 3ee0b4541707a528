package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepBar renders an inline progress bar for a counted sequence of steps,
// such as index statements executed after a bulk load.
type StepBar struct {
	ui        *UI
	model     progress.Model
	label     string
	total     int
	done      int
	out       io.Writer
	announced bool
}

// NewStepBar creates a step progress bar writing to stdout.
func (u *UI) NewStepBar(label string, total int) *StepBar {
	model := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &StepBar{
		ui:    u,
		model: model,
		label: label,
		total: total,
		out:   os.Stdout,
	}
}

// SetOutput redirects the bar's output, primarily for tests.
func (b *StepBar) SetOutput(w io.Writer) {
	b.out = w
}

// Advance marks one step finished and redraws the bar.
func (b *StepBar) Advance() {
	if b.done < b.total {
		b.done++
	}

	if !b.ui.shouldStyle() {
		if !b.announced {
			fmt.Fprintf(b.out, "%s (%d steps)\n", b.label, b.total)
			b.announced = true
		}
		return
	}

	pct := 1.0
	if b.total > 0 {
		pct = float64(b.done) / float64(b.total)
	}

	labelStyle := lipgloss.NewStyle().Width(18)
	countStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(b.out, "\r\033[K  %s %s %s",
		labelStyle.Render(b.label),
		b.model.ViewAs(pct),
		countStyle.Render(fmt.Sprintf("%d/%d", b.done, b.total)),
	)
}

// Complete finishes the bar with a success line.
func (b *StepBar) Complete() {
	if !b.ui.shouldStyle() {
		fmt.Fprintf(b.out, "%s: %d/%d done\n", b.label, b.done, b.total)
		return
	}

	labelStyle := lipgloss.NewStyle().Width(18)

	fmt.Fprintf(b.out, "\r\033[K  %s %s %s\n",
		StyleSuccess.Render(SymbolSuccess),
		labelStyle.Render(b.label),
		StyleSuccess.Render(fmt.Sprintf("%d/%d complete", b.done, b.total)),
	)
}

// Fail finishes the bar with an error line.
func (b *StepBar) Fail(err error) {
	if !b.ui.shouldStyle() {
		fmt.Fprintf(b.out, "%s FAILED: %v\n", b.label, err)
		return
	}

	labelStyle := lipgloss.NewStyle().Width(18)

	fmt.Fprintf(b.out, "\r\033[K  %s %s %s\n",
		StyleError.Render(SymbolError),
		labelStyle.Render(b.label),
		StyleError.Render(err.Error()),
	)
}
