package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/client"
	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// Form fields in tab order.
const (
	fieldTickers = iota
	fieldDropMin
	fieldDropMax
	fieldDropStep
	fieldHoldMin
	fieldHoldMax
	fieldHoldStep
	fieldTPMin
	fieldTPMax
	fieldTPStep
	fieldCapital
	fieldCount
)

var fieldNames = [fieldCount]string{
	"tickers",
	"drop min", "drop max", "drop step",
	"hold min", "hold max", "hold step",
	"take-profit min", "take-profit max", "take-profit step",
	"capital",
}

// ParamForm holds the optimization inputs as editable text fields.
type ParamForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

// NewParamForm creates a form filled from p.
func NewParamForm(p config.Preset) ParamForm {
	var f ParamForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 8
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)
		f.inputs[i] = ti
	}
	f.inputs[fieldTickers].CharLimit = 256
	f.inputs[fieldTickers].Width = 32
	f.inputs[fieldTickers].Placeholder = "MSFT, IBM, ^GDAXI"
	f.Load(p)
	return f
}

// Load replaces every field with the values of p.
func (f *ParamForm) Load(p config.Preset) {
	values := [fieldCount]float64{
		0,
		p.Drop.Min, p.Drop.Max, p.Drop.Step,
		p.Hold.Min, p.Hold.Max, p.Hold.Step,
		p.TakeProfit.Min, p.TakeProfit.Max, p.TakeProfit.Step,
		p.Capital,
	}
	f.inputs[fieldTickers].SetValue(p.Tickers)
	for i := fieldDropMin; i < fieldCount; i++ {
		f.inputs[i].SetValue(strconv.FormatFloat(values[i], 'f', -1, 64))
	}
}

// Set overwrites a single field; used by tests and presets.
func (f *ParamForm) Set(field int, value string) {
	f.inputs[field].SetValue(value)
}

// Build parses the fields and expands the ranges into a request. Errors
// wrap grid.ErrInvalidArgument.
func (f ParamForm) Build() (backtest.OptimizationRequest, error) {
	var nums [fieldCount]float64
	for i := fieldDropMin; i < fieldCount; i++ {
		raw := strings.TrimSpace(f.inputs[i].Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return backtest.OptimizationRequest{}, fmt.Errorf("%w: %s: %q is not a number", grid.ErrInvalidArgument, fieldNames[i], raw)
		}
		nums[i] = v
	}
	return client.BuildRequest(
		client.ParseInstruments(f.inputs[fieldTickers].Value()),
		grid.Range{Min: nums[fieldDropMin], Max: nums[fieldDropMax], Step: nums[fieldDropStep]},
		grid.Range{Min: nums[fieldHoldMin], Max: nums[fieldHoldMax], Step: nums[fieldHoldStep]},
		grid.Range{Min: nums[fieldTPMin], Max: nums[fieldTPMax], Step: nums[fieldTPStep]},
		nums[fieldCapital],
	)
}

// Focus moves the cursor into field i.
func (f *ParamForm) Focus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i%fieldCount + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// Next focuses the following field, wrapping around.
func (f *ParamForm) Next() tea.Cmd { return f.Focus(f.focus + 1) }

// Prev focuses the preceding field, wrapping around.
func (f *ParamForm) Prev() tea.Cmd { return f.Focus(f.focus - 1) }

// Blur removes the cursor from the form.
func (f *ParamForm) Blur() {
	f.inputs[f.focus].Blur()
}

// Focused returns the index of the field holding the cursor.
func (f ParamForm) Focused() int { return f.focus }

// Update forwards msg to the focused field.
func (f ParamForm) Update(msg tea.Msg) (ParamForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form rows.
func (f ParamForm) View() string {
	label := func(s string) string { return styles.Label.Width(14).Render(s) }
	cell := func(i int) string {
		st := lipgloss.NewStyle().Foreground(styles.TextMuted)
		if f.inputs[i].Focused() {
			st = st.Foreground(styles.AccentPrimary)
		}
		return st.Render("[") + f.inputs[i].View() + st.Render("]")
	}
	rangeRow := func(name string, first int) string {
		return label(name) + cell(first) + " " + styles.Dim("to") + " " + cell(first+1) +
			" " + styles.Dim("step") + " " + cell(first+2)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		label("Tickers")+cell(fieldTickers),
		rangeRow("Drop %", fieldDropMin),
		rangeRow("Hold days", fieldHoldMin),
		rangeRow("Take profit %", fieldTPMin),
		label("Capital")+cell(fieldCapital),
	)
}
