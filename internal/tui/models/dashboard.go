package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Dallionking/sigma-optimizer/internal/aggregate"
	"github.com/Dallionking/sigma-optimizer/internal/app"
	"github.com/Dallionking/sigma-optimizer/internal/chart"
	"github.com/Dallionking/sigma-optimizer/internal/client"
	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/tui/components"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// eventMsg carries a resolution event back from a tea.Cmd.
type eventMsg struct{ ev app.Event }

// configReloadMsg is sent when config.json changed on disk.
type configReloadMsg config.Reload

const (
	tabOptimize = iota
	tabTrades
	tabLogs
)

var dashboardTabs = []string{"Optimize", "Trades", "Logs"}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// DashboardModel is the full-screen dashboard. It hosts the app state
// machine: Update reduces events, and the resulting effects run as tea.Cmds
// whose results come back as eventMsg.
type DashboardModel struct {
	// Sub-components
	form      ParamForm
	spin      spinner.Model
	trades    viewport.Model
	logStream components.LogStream
	tabBar    components.TabBar
	confirm   *components.ConfirmDialog

	// Data
	state   app.State
	cfg     *config.Config
	presets []string
	preset  int
	formErr string

	// UI state
	editing  bool
	width    int
	height   int
	ready    bool
	quitting bool

	// Services
	ctx     context.Context
	svc     client.Service
	reloads <-chan config.Reload
	log     zerolog.Logger
}

// NewDashboardModel creates a dashboard that talks to svc. reloads may be nil
// when config.json is not watched.
func NewDashboardModel(ctx context.Context, svc client.Service, cfg *config.Config, reloads <-chan config.Reload, log zerolog.Logger) DashboardModel {
	if cfg == nil {
		cfg = config.Default()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)

	m := DashboardModel{
		spin:      s,
		trades:    viewport.New(80, 20),
		logStream: components.NewLogStream(80, 20),
		tabBar:    components.TabBar{Tabs: dashboardTabs},
		ctx:       ctx,
		svc:       svc,
		reloads:   reloads,
		log:       log,
		width:     100,
		height:    40,
	}
	m.applyConfig(cfg)
	m.form = NewParamForm(m.currentPreset())
	return m
}

// State returns the state machine snapshot.
func (m DashboardModel) State() app.State { return m.state }

// Editing reports whether the parameter form has focus.
func (m DashboardModel) Editing() bool { return m.editing }

// FormError returns the last validation error of the form, if any.
func (m DashboardModel) FormError() string { return m.formErr }

// PresetName returns the preset the form was last loaded from.
func (m DashboardModel) PresetName() string {
	if len(m.presets) == 0 {
		return config.DefaultPresetName
	}
	return m.presets[m.preset]
}

// Logs returns the in-app activity log.
func (m DashboardModel) Logs() []components.LogLine { return m.logStream.Lines() }

// ---------------------------------------------------------------------------
// Bubble Tea interface
// ---------------------------------------------------------------------------

// Init starts the spinner and, if configured, the config watcher.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitReload(m.reloads))
}

// Update handles keys, resolution events and config reloads.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.reflow()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		return m.dispatch(msg.ev)

	case configReloadMsg:
		m.handleReload(config.Reload(msg))
		return m, waitReload(m.reloads)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.forwardScroll(msg)
}

// View renders header, tabs, the active tab and the footer.
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Loading dashboard..."
	}
	if m.confirm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	m.tabBar.Width = m.width
	status := styles.PhaseBadge(m.state.Optimization.Phase.String())
	if m.state.Busy() {
		status = m.spin.View() + " " + status
	}
	header := components.Header{
		Preset:  m.PresetName(),
		Service: m.serviceURL(),
		Status:  status,
		Width:   m.width,
	}

	var body string
	switch m.tabBar.ActiveTab {
	case tabTrades:
		body = m.trades.View()
	case tabLogs:
		body = m.logStream.View()
	default:
		body = m.renderOptimize()
	}

	footer := components.DashboardFooter(m.width, len(m.state.Instruments))
	if m.editing {
		footer = components.FormFooter(m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header.Render(), m.tabBar.Render(), body, footer.Render())
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirm != nil {
		d, _ := m.confirm.Update(msg)
		if !d.Done {
			m.confirm = &d
			return m, nil
		}
		m.confirm = nil
		if d.Confirmed {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.editing {
		return m.handleFormKey(msg)
	}

	switch key := msg.String(); key {
	case "q":
		if m.state.Busy() {
			d := components.NewConfirmDialog("Quit?", "A request is still running. Quit anyway?")
			m.confirm = &d
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "e":
		m.editing = true
		m.tabBar.ActiveTab = tabOptimize
		return m, m.form.Focus(m.form.Focused())
	case "r":
		return m.submit()
	case "p":
		m.cyclePreset()
		return m, nil
	case "tab":
		m.tabBar.ActiveTab = m.tabBar.Next()
		return m, nil
	case "shift+tab":
		m.tabBar.ActiveTab = m.tabBar.Prev()
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		bar := components.NewInstrumentBar(m.state.Instruments, nil, m.state.Selected, m.width)
		ticker, ok := bar.At(int(key[0] - '0'))
		if !ok {
			return m, nil
		}
		return m.dispatch(app.InstrumentSelected{Ticker: ticker})
	}

	return m.forwardScroll(msg)
}

func (m DashboardModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m, m.form.Next()
	case "shift+tab", "up":
		return m, m.form.Prev()
	case "esc":
		m.editing = false
		m.form.Blur()
		return m, nil
	case "enter":
		return m.submit()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// forwardScroll passes msg to the scrollable view of the active tab.
func (m DashboardModel) forwardScroll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tabBar.ActiveTab {
	case tabTrades:
		m.trades, cmd = m.trades.Update(msg)
	case tabLogs:
		m.logStream, cmd = m.logStream.Update(msg)
	}
	return m, cmd
}

// ---------------------------------------------------------------------------
// State machine host
// ---------------------------------------------------------------------------

// submit validates the form and starts an optimization run.
func (m DashboardModel) submit() (tea.Model, tea.Cmd) {
	req, err := m.form.Build()
	if err != nil {
		m.formErr = err.Error()
		m.addLog("error", "OPTIMIZE", m.formErr)
		return m, nil
	}
	m.formErr = ""
	m.editing = false
	m.form.Blur()
	return m.dispatch(app.SubmitRequested{Request: req})
}

// dispatch reduces ev and returns the command running its effect.
func (m DashboardModel) dispatch(ev app.Event) (tea.Model, tea.Cmd) {
	if app.IsStale(m.state, ev) {
		m.logStale(ev)
		return m, nil
	}

	var eff app.Effect
	m.state, eff = app.Reduce(m.state, ev)
	m.logTransition(ev, eff)
	m.refreshTrades()

	if eff == nil {
		return m, nil
	}
	ctx, svc := m.ctx, m.svc
	return m, func() tea.Msg {
		return eventMsg{ev: app.Run(ctx, svc, eff)}
	}
}

func (m *DashboardModel) logStale(ev app.Event) {
	switch ev := ev.(type) {
	case app.OptimizationResolved:
		m.log.Debug().Uint64("seq", ev.Seq).Msg("discarded stale optimization result")
		m.addLog("warn", "OPTIMIZE", fmt.Sprintf("discarded superseded result #%d", ev.Seq))
	case app.PricesResolved:
		m.log.Debug().Uint64("seq", ev.Seq).Str("ticker", ev.Ticker).Msg("discarded stale price series")
		m.addLog("warn", "CHART", fmt.Sprintf("discarded superseded %s prices #%d", ev.Ticker, ev.Seq))
	}
}

func (m *DashboardModel) logTransition(ev app.Event, eff app.Effect) {
	s := m.state
	switch ev := ev.(type) {
	case app.SubmitRequested:
		r := ev.Request
		m.log.Info().Strs("tickers", r.Tickers).Int("combinations", r.Combinations()).
			Uint64("seq", s.Optimization.Seq).Msg("optimization submitted")
		m.addLog("info", "OPTIMIZE", fmt.Sprintf("submitted %d tickers × %d combinations", len(r.Tickers), r.Combinations()))

	case app.OptimizationResolved:
		o := s.Optimization
		switch {
		case o.Phase == app.PhaseFailed:
			m.log.Error().Str("reason", o.Reason).Msg("optimization failed")
			m.addLog("error", "OPTIMIZE", o.Reason)
		case o.Empty():
			m.log.Info().Msg("optimization produced no trades")
			m.addLog("warn", "OPTIMIZE", "no trades were generated for these parameters")
		default:
			res := o.Result
			m.log.Info().Float64("roi_pct", res.ROIPct).Int("trades", res.TotalTrades).Msg("optimization loaded")
			m.addLog("success", "OPTIMIZE", fmt.Sprintf("ROI %+.2f%% over %d trades (drop %g, hold %g, tp %g)",
				res.ROIPct, res.TotalTrades, res.BestDrop, res.BestHold, res.BestTP))
		}

	case app.PricesResolved:
		c := s.Chart
		if c.Phase == app.PhaseFailed {
			m.log.Error().Str("ticker", c.Ticker).Str("reason", c.Reason).Msg("price series failed")
			m.addLog("error", "CHART", c.Ticker+": "+c.Reason)
			return
		}
		mc := chart.Markers(c.Records)
		m.log.Info().Str("ticker", c.Ticker).Int("days", len(c.Records)).Msg("chart loaded")
		m.addLog("success", "CHART", fmt.Sprintf("%s: %d days, %d buys, %d sells", c.Ticker, len(c.Records), mc.Buys, mc.Sells))
	}

	if f, ok := eff.(app.FetchPricesEffect); ok {
		m.log.Debug().Str("ticker", f.Ticker).Uint64("seq", f.Seq).Msg("fetching price series")
		m.addLog("info", "CHART", "loading "+f.Ticker)
	}
}

func (m *DashboardModel) addLog(level, source, msg string) {
	m.logStream.AddLine(components.LogLine{Time: time.Now(), Level: level, Source: source, Message: msg})
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func (m *DashboardModel) applyConfig(cfg *config.Config) {
	current := ""
	if m.cfg != nil && len(m.presets) > 0 {
		current = m.presets[m.preset]
	}
	m.cfg = cfg
	m.presets = cfg.PresetNames()
	m.preset = 0

	want := current
	if _, ok := cfg.Presets[want]; !ok {
		want = cfg.ActivePreset
	}
	for i, name := range m.presets {
		if name == want {
			m.preset = i
		}
	}
	m.state.TopN = cfg.Dashboard.TopInstruments
}

func (m DashboardModel) currentPreset() config.Preset {
	if p, ok := m.cfg.Presets[m.PresetName()]; ok {
		return p
	}
	return config.DefaultPreset()
}

func (m *DashboardModel) cyclePreset() {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	m.form.Load(m.currentPreset())
	m.formErr = ""
	m.addLog("info", "CONFIG", "preset "+m.PresetName())
}

func (m *DashboardModel) handleReload(r config.Reload) {
	if r.Err != nil {
		m.log.Warn().Err(r.Err).Msg("config reload failed")
		m.addLog("warn", "CONFIG", "reload failed: "+r.Err.Error())
		return
	}
	prevURL := m.serviceURL()
	m.applyConfig(r.Config)
	if !m.editing {
		m.form.Load(m.currentPreset())
	}
	m.log.Info().Str("preset", m.PresetName()).Msg("config reloaded")
	m.addLog("info", "CONFIG", "config.json reloaded")
	if m.serviceURL() != prevURL {
		m.addLog("warn", "CONFIG", "service URL changed; restart to apply")
	}
}

func (m DashboardModel) serviceURL() string {
	if m.cfg == nil {
		return client.DefaultBaseURL
	}
	return m.cfg.Service.BaseURL
}

// waitReload blocks on the next config reload.
func waitReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return configReloadMsg(r)
	}
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

// bodyHeight is the space between tab bar and footer.
func (m DashboardModel) bodyHeight() int {
	return max(m.height-3, 5)
}

func (m *DashboardModel) reflow() {
	m.trades.Width = m.width
	m.trades.Height = m.bodyHeight()
	m.logStream.SetSize(m.width, m.bodyHeight()-1)
	m.refreshTrades()
}

func (m *DashboardModel) refreshTrades() {
	o := m.state.Optimization
	if o.Phase != app.PhaseLoaded {
		m.trades.SetContent(styles.Dim("Run an optimization to see its trades."))
		return
	}
	m.trades.SetContent(components.TradeTable{Trades: o.Result.Trades}.Render())
}

// renderOptimize lays out the form beside the results, or stacked when the
// terminal is narrow.
func (m DashboardModel) renderOptimize() string {
	if m.width < 110 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderFormPanel(m.width), m.renderResults(m.width))
	}
	left := 60
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderFormPanel(left), m.renderResults(m.width-left))
}

func (m DashboardModel) renderFormPanel(width int) string {
	req, err := m.form.Build()
	bar := components.GridBar{Request: req, Width: width}
	if err != nil {
		bar.Invalid = err.Error()
	}

	parts := []string{m.form.View()}
	if m.formErr != "" {
		parts = append(parts, styles.ErrorText.Render(m.formErr))
	}
	parts = append(parts, "", components.RunProgress(m.state).Render())

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Titled("Parameters", strings.Join(parts, "\n"), width, m.editing),
		bar.Render(),
	)
}

func (m DashboardModel) renderResults(width int) string {
	o := m.state.Optimization
	inner := width - 4

	switch o.Phase {
	case app.PhaseIdle:
		return styles.Titled("Results", styles.Dim("Press e to edit parameters, r to run."), width, false)
	case app.PhaseLoading:
		msg := fmt.Sprintf("%s Optimizing %d backtests...", m.spin.View(), len(o.Request.Tickers)*o.Request.Combinations())
		return styles.Titled("Results", msg, width, false)
	case app.PhaseFailed:
		return styles.Titled("Results", styles.ErrorText.Render("✗ "+o.Reason), width, false)
	}

	res := o.Result
	if o.Empty() {
		return styles.Titled("Results", styles.Gold("No trades were generated for these parameters."), width, false)
	}

	best := styles.Label.Render("Best  ") +
		styles.Label.Render("drop ") + styles.Gold(fmt.Sprintf("%g%%", res.BestDrop)) +
		styles.Label.Render("  hold ") + styles.Gold(fmt.Sprintf("%gd", res.BestHold)) +
		styles.Label.Render("  tp ") + styles.Gold(fmt.Sprintf("%g%%", res.BestTP))

	summary := lipgloss.JoinVertical(lipgloss.Left,
		components.KPIRow(res.ROIPct, res.TotalProfit, res.WinRate, res.TotalTrades, inner),
		best,
		"",
		components.EquityChart{Points: res.EquityCurveData, Width: inner - 24}.Render(),
	)

	bar := components.NewInstrumentBar(m.state.Instruments, aggregate.CountByTicker(res.Trades), m.state.Selected, inner)
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Titled("Results", summary, width, false),
		styles.Titled("Chart "+m.state.Chart.Ticker, bar.Render()+"\n\n"+m.renderChart(inner), width, false),
	)
}

func (m DashboardModel) renderChart(width int) string {
	c := m.state.Chart
	switch c.Phase {
	case app.PhaseLoading:
		return m.spin.View() + " Loading " + c.Ticker + " prices..."
	case app.PhaseFailed:
		return styles.ErrorText.Render("✗ " + c.Reason)
	case app.PhaseLoaded:
		return components.PriceChart{Ticker: c.Ticker, Records: c.Records, Width: width}.Render()
	}
	return styles.Dim("Select an instrument.")
}
