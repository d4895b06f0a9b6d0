package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dallionking/sigma-optimizer/internal/config"
)

// comboWarn is the grid size above which a run is flagged as slow. The
// service evaluates every combination for every ticker.
const comboWarn = 1000

// registerChecks registers the checks across three categories.
func (c *Checker) registerChecks() {
	c.add("config-json", CategoryProject, c.checkConfigJSON)
	c.add("config-valid", CategoryProject, c.checkConfigValid)
	c.add("log-dir", CategoryProject, c.checkLogDir)

	c.add("active-preset", CategoryGrid, c.checkActivePreset)
	c.add("grid-size", CategoryGrid, c.checkGridSize)

	c.add("service-url", CategoryService, c.checkServiceURL)
	c.add("service-reachable", CategoryService, c.checkServiceReachable)
}

// ---------------------------------------------------------------------------
// Project checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfigJSON(ctx context.Context) CheckResult {
	path := filepath.Join(c.projectRoot, config.FileName)
	if _, err := os.Stat(path); err != nil {
		return CheckResult{Status: StatusWarn, Message: "no config.json, using built-in defaults"}
	}
	return CheckResult{Status: StatusPass, Message: path}
}

func (c *Checker) checkConfigValid(ctx context.Context) CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return CheckResult{Status: StatusPass, Message: "no issues"}
	}
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg = fmt.Sprintf("%s (+%d more)", msg, len(errs)-1)
	}
	return CheckResult{Status: StatusFail, Message: msg}
}

func (c *Checker) checkLogDir(ctx context.Context) CheckResult {
	dir := filepath.Dir(c.cfg.LogPath(c.projectRoot))
	info, err := os.Stat(dir)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("log directory missing: %s", dir)}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("not a directory: %s", dir)}
	}
	f, err := os.CreateTemp(dir, ".sigma-write-*")
	if err != nil {
		return CheckResult{Status: StatusFail, Message: "log directory not writable"}
	}
	f.Close()
	os.Remove(f.Name())
	return CheckResult{Status: StatusPass, Message: dir}
}

// ---------------------------------------------------------------------------
// Grid checks
// ---------------------------------------------------------------------------

func (c *Checker) checkActivePreset(ctx context.Context) CheckResult {
	p, err := c.cfg.Active()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	tickers := p.Instruments()
	if len(tickers) == 0 {
		return CheckResult{Status: StatusFail, Message: "preset has no tickers"}
	}
	name := c.cfg.ActivePreset
	if name == "" {
		name = config.DefaultPresetName
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s: %s", name, strings.Join(tickers, ", "))}
}

func (c *Checker) checkGridSize(ctx context.Context) CheckResult {
	p, err := c.cfg.Active()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	combos := 1
	for _, r := range [...]struct {
		name string
		n    func() (int, error)
	}{
		{"drop", p.Drop.Count},
		{"hold", p.Hold.Count},
		{"takeProfit", p.TakeProfit.Count},
	} {
		n, err := r.n()
		if err != nil {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s: %v", r.name, err)}
		}
		if n == 0 {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s range is empty", r.name)}
		}
		combos *= n
	}
	msg := fmt.Sprintf("%d combinations per ticker", combos)
	if combos > comboWarn {
		return CheckResult{Status: StatusWarn, Message: msg + " (slow)"}
	}
	return CheckResult{Status: StatusPass, Message: msg}
}

// ---------------------------------------------------------------------------
// Service checks
// ---------------------------------------------------------------------------

func (c *Checker) checkServiceURL(ctx context.Context) CheckResult {
	if c.cfg.Service.BaseURL == "" {
		return CheckResult{Status: StatusFail, Message: "service.baseURL is empty"}
	}
	return CheckResult{Status: StatusPass, Message: c.cfg.Service.BaseURL}
}

func (c *Checker) checkServiceReachable(ctx context.Context) CheckResult {
	if c.service == nil {
		return CheckResult{Status: StatusFail, Message: "no service client configured"}
	}
	code, err := c.service.Ping(ctx)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	if code >= 500 {
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("reachable, HTTP %d", code)}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("reachable, HTTP %d", code)}
}
