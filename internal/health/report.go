package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

var categoryOrder = []string{CategoryProject, CategoryGrid, CategoryService}

// categoryLabel returns a human-friendly title for a category key.
func categoryLabel(cat string) string {
	switch cat {
	case CategoryProject:
		return "Project & Config"
	case CategoryGrid:
		return "Parameter Grid"
	case CategoryService:
		return "Optimizer Service"
	default:
		return cat
	}
}

// Summary is the one-line pass/warn/fail tally.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d/%d passed", r.Passed, r.Total)
	if r.Warned > 0 {
		s += fmt.Sprintf(", %d warning(s)", r.Warned)
	}
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	return s
}

// Verdict is HEALTHY, DEGRADED or UNHEALTHY.
func (r *Report) Verdict() string {
	switch {
	case r.Failed > 0:
		return "UNHEALTHY"
	case r.Warned > 0:
		return "DEGRADED"
	default:
		return "HEALTHY"
	}
}

// FormatReport renders r grouped by category for the health command.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("\n  " + styles.Title.Render("Optimizer Health Check") + "\n")
	b.WriteString("  " + styles.Divider(56) + "\n")

	grouped := make(map[string][]CheckResult)
	for _, res := range r.Results {
		grouped[res.Category] = append(grouped[res.Category], res)
	}

	nameStyle := lipgloss.NewStyle().Width(20).Foreground(styles.TextPrimary)
	msgStyle := lipgloss.NewStyle().Width(44).Foreground(styles.TextSecondary)
	durStyle := lipgloss.NewStyle().Width(8).Foreground(styles.TextMuted).Align(lipgloss.Right)
	catStyle := lipgloss.NewStyle().Foreground(styles.AccentSecondary).Bold(true).MarginTop(1)

	for _, cat := range categoryOrder {
		results := grouped[cat]
		if len(results) == 0 {
			continue
		}
		b.WriteString("\n  " + catStyle.Render(categoryLabel(cat)) + "\n")
		for _, res := range results {
			fmt.Fprintf(&b, "  %s %s %s %s\n",
				statusSymbol(res.Status),
				nameStyle.Render(res.Name),
				msgStyle.Render(styles.TruncateWithEllipsis(res.Message, 42)),
				durStyle.Render(formatDuration(res.Duration)),
			)
		}
	}

	b.WriteString("\n  " + styles.Divider(56) + "\n")
	b.WriteString("  " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(r.Summary()))
	b.WriteString("  " + lipgloss.NewStyle().Foreground(verdictColor(r)).Bold(true).Render(r.Verdict()) + "\n")
	b.WriteString(styles.Dim(fmt.Sprintf("  completed in %s", formatDuration(r.Duration))) + "\n")

	return b.String()
}

func statusSymbol(s Status) string {
	color := styles.TextMuted
	switch s {
	case StatusPass:
		color = styles.StatusOK
	case StatusWarn:
		color = styles.StatusWarn
	case StatusFail:
		color = styles.StatusError
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(s.Symbol())
}

func verdictColor(r *Report) lipgloss.Color {
	switch {
	case r.Failed > 0:
		return styles.StatusError
	case r.Warned > 0:
		return styles.StatusWarn
	default:
		return styles.StatusOK
	}
}

func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		return "<1ms"
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
}
