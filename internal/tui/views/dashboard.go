package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/client"
	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/logging"
	"github.com/Dallionking/sigma-optimizer/internal/tui/components"
	"github.com/Dallionking/sigma-optimizer/internal/tui/models"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// DashboardOptions configures RunDashboard.
type DashboardOptions struct {
	Root    string
	Config  *config.Config
	BaseURL string // overrides Config.Service.BaseURL when set
	Verbose bool
}

// ---------------------------------------------------------------------------
// RunDashboard -- interactive full-screen TUI entry point
// ---------------------------------------------------------------------------

// RunDashboard launches the full-screen dashboard. Logs go to the configured
// log file so they do not tear the alt screen, and config.json is watched so
// preset edits show up without a restart.
func RunDashboard(ctx context.Context, opts DashboardOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	log, closer, err := logging.New(logging.Options{Verbose: opts.Verbose, File: cfg.LogPath(opts.Root)})
	if err != nil {
		return err
	}
	defer closer.Close()

	baseURL := cfg.Service.BaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	svc := client.New(baseURL, cfg.Service.Timeout(), log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Without a watcher the dashboard simply keeps its startup config.
	var reloads <-chan config.Reload
	if w, err := config.NewWatcher(opts.Root); err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
	} else {
		defer w.Close()
		reloads = w.Watch(ctx)
	}

	log.Info().Str("service", baseURL).Str("root", opts.Root).Msg("dashboard started")
	model := models.NewDashboardModel(ctx, svc, cfg, reloads, log)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Standalone renderers for non-interactive commands
// ---------------------------------------------------------------------------

// RenderChart renders the price chart of a merged series in a titled panel.
func RenderChart(ticker string, records []backtest.ChartRecord, width int) string {
	if width < 40 {
		width = 80
	}
	plot := components.PriceChart{Ticker: ticker, Records: records, Width: width - 4}
	return styles.Titled("Chart "+ticker, plot.Render(), width, false)
}

// RenderEquity renders the equity curve against buy and hold.
func RenderEquity(res *backtest.OptimizationResult, width int) string {
	if width < 40 {
		width = 80
	}
	if res == nil {
		return ""
	}
	eq := components.EquityChart{Points: res.EquityCurveData, Width: width - 28}
	return lipgloss.JoinVertical(lipgloss.Left,
		components.KPIRow(res.ROIPct, res.TotalProfit, res.WinRate, res.TotalTrades, width),
		styles.Titled("Equity", eq.Render(), width, false),
	)
}
