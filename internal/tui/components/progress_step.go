package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/app"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// ProgressStep shows a multi-step progress indicator.
type ProgressStep struct {
	Steps   []string // step labels
	Current int      // 0-indexed current step; len(Steps) when all are done
	Failed  bool     // the current step failed
	Width   int
}

// RunProgress maps the dashboard state onto the three stages of a run:
// submit, optimize and chart.
func RunProgress(s app.State) ProgressStep {
	p := ProgressStep{Steps: []string{"Parameters", "Optimize", "Chart"}}
	switch s.Optimization.Phase {
	case app.PhaseIdle:
		p.Current = 0
	case app.PhaseLoading:
		p.Current = 1
	case app.PhaseFailed:
		p.Current, p.Failed = 1, true
	case app.PhaseLoaded:
		switch s.Chart.Phase {
		case app.PhaseLoaded:
			p.Current = 3
		case app.PhaseFailed:
			p.Current, p.Failed = 2, true
		case app.PhaseIdle:
			// Nothing to chart.
			p.Current = 3
		default:
			p.Current = 2
		}
	}
	return p
}

// Render returns the styled progress indicator. Done steps get a green dot,
// the current step a cyan one (red cross when failed) and pending steps an
// empty circle.
func (p ProgressStep) Render() string {
	if len(p.Steps) == 0 {
		return ""
	}

	parts := make([]string, 0, len(p.Steps))
	for i, label := range p.Steps {
		var mark string
		var color lipgloss.Color
		switch {
		case i < p.Current:
			mark, color = "●", styles.StatusOK
		case i == p.Current && p.Failed:
			mark, color = "✗", styles.StatusError
		case i == p.Current:
			mark, color = "●", styles.AccentPrimary
		default:
			mark, color = "○", styles.TextMuted
		}
		st := lipgloss.NewStyle().Foreground(color)
		if i == p.Current {
			st = st.Bold(true)
		}
		parts = append(parts, st.Render(mark+" "+label))
	}

	return strings.Join(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" ─ "))
}
