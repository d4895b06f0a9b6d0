package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func itoa(n int) string { return strconv.Itoa(n) }

// pad right-aligns or left-aligns rendered text to width cells, measuring
// with lipgloss so ANSI sequences are not counted.
func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
