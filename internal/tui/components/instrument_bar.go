package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// InstrumentBar lists the selectable instruments with their hotkeys and
// trade counts, e.g. "[1] IBM (4)".
type InstrumentBar struct {
	Instruments []string
	Counts      map[string]int
	Selected    string
	Width       int
}

// NewInstrumentBar builds a bar for the given tickers and per-ticker trade
// counts.
func NewInstrumentBar(instruments []string, counts map[string]int, selected string, width int) InstrumentBar {
	return InstrumentBar{Instruments: instruments, Counts: counts, Selected: selected, Width: width}
}

// At returns the ticker bound to hotkey n (1-based).
func (b InstrumentBar) At(n int) (string, bool) {
	if n < 1 || n > len(b.Instruments) || n > 9 {
		return "", false
	}
	return b.Instruments[n-1], true
}

// Render returns the bar, or a muted hint when nothing traded.
func (b InstrumentBar) Render() string {
	if len(b.Instruments) == 0 {
		return styles.Dim("No traded instruments.")
	}
	on := lipgloss.NewStyle().Background(styles.BgHover).Foreground(styles.AccentGold).Bold(true).Padding(0, 1)
	off := lipgloss.NewStyle().Foreground(styles.TextSecondary).Padding(0, 1)

	items := make([]string, 0, len(b.Instruments))
	for i, t := range b.Instruments {
		label := fmt.Sprintf("[%d] %s (%d)", i+1, t, b.Counts[t])
		if t == b.Selected {
			items = append(items, on.Render(label))
		} else {
			items = append(items, off.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(max(b.Width, 20)).Render(strings.Join(items, " "))
}
