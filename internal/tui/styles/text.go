package styles

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Color helpers
// ---------------------------------------------------------------------------

// Cyan renders s in AccentPrimary.
func Cyan(s string) string {
	return lipgloss.NewStyle().Foreground(AccentPrimary).Render(s)
}

// Gold renders s in AccentGold.
func Gold(s string) string {
	return lipgloss.NewStyle().Foreground(AccentGold).Render(s)
}

// Green renders s in StatusOK.
func Green(s string) string {
	return lipgloss.NewStyle().Foreground(StatusOK).Render(s)
}

// Red renders s in StatusError.
func Red(s string) string {
	return lipgloss.NewStyle().Foreground(StatusError).Render(s)
}

// Dim renders s in TextMuted.
func Dim(s string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(s)
}

// Bold renders s in bold TextPrimary.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).Render(s)
}

// Signed colors text by the sign of v: green above zero, red below.
func Signed(v float64, text string) string {
	switch {
	case v > 0:
		return ProfitText.Render(text)
	case v < 0:
		return LossText.Render(text)
	default:
		return Value.Render(text)
	}
}

// ---------------------------------------------------------------------------
// Sparkline
// ---------------------------------------------------------------------------

// blockRamp maps normalized 0..7 buckets to bar heights.
var blockRamp = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Resample picks width values from values by nearest neighbour. Column i of
// the result covers values[i*len/width].
func Resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	for i := range width {
		idx := i * len(values) / width
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[i] = values[idx]
	}
	return out
}

// Sparkline draws values as a one-line bar chart width columns wide, scaled
// to [lo, hi]. Pass lo == hi to scale to the data itself.
func Sparkline(values []float64, width int, lo, hi float64, color lipgloss.Color) string {
	sampled := Resample(values, width)
	if sampled == nil {
		return ""
	}
	if lo == hi {
		lo, hi = Bounds(sampled)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	b.Grow(width * 3)
	for _, v := range sampled {
		bucket := int(math.Round((v - lo) / span * float64(len(blockRamp)-1)))
		bucket = max(0, min(bucket, len(blockRamp)-1))
		b.WriteRune(blockRamp[bucket])
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// Bounds returns the minimum and maximum of values.
func Bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// ---------------------------------------------------------------------------
// Text utilities
// ---------------------------------------------------------------------------

// TruncateWithEllipsis shortens s to max runes, appending "..." when
// truncation occurs. If max is less than 4 the string is simply cut.
func TruncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Price formats a price with two decimals.
func Price(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
