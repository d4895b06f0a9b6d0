package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

type stubPinger struct {
	code int
	err  error
}

func (s stubPinger) Ping(context.Context) (int, error) { return s.code, s.err }

func byName(r *Report) map[string]CheckResult {
	m := make(map[string]CheckResult, len(r.Results))
	for _, res := range r.Results {
		m[res.Name] = res
	}
	return m
}

func TestDefaultsHealthy(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	c := NewChecker(dir, config.Default(), stubPinger{code: 200})
	r := c.RunAll(context.Background())
	if !r.Healthy || r.Failed != 0 || r.Warned != 0 {
		t.Fatalf("report = %+v", r.Results)
	}
	if r.Total != len(c.Names()) {
		t.Fatalf("total = %d", r.Total)
	}
	if got := byName(r)["grid-size"].Message; got != "32 combinations per ticker" {
		t.Fatalf("grid-size = %q", got)
	}
	if r.Verdict() != "HEALTHY" {
		t.Fatal(r.Verdict())
	}
}

func TestMissingConfigWarns(t *testing.T) {
	r := NewChecker(t.TempDir(), config.Default(), stubPinger{code: 404}).RunCategory(context.Background(), CategoryProject)
	if r.Warned != 1 || !r.Healthy || r.Verdict() != "DEGRADED" {
		t.Fatalf("report = %+v", r.Results)
	}
}

func TestServiceUnreachable(t *testing.T) {
	r := NewChecker(t.TempDir(), config.Default(), stubPinger{err: errors.New("service unreachable")}).
		RunCategory(context.Background(), CategoryService)
	res := byName(r)["service-reachable"]
	if res.Status != StatusFail || r.Healthy {
		t.Fatalf("result = %+v", res)
	}

	r = NewChecker(t.TempDir(), config.Default(), nil).RunCategory(context.Background(), CategoryService)
	if r.Healthy {
		t.Fatal("nil service must fail")
	}
}

func TestGridChecks(t *testing.T) {
	cfg := config.Default()
	p := cfg.Presets[config.DefaultPresetName]
	p.Drop = grid.Range{Min: 0, Max: 100, Step: 1}
	p.Hold = grid.Range{Min: 1, Max: 100, Step: 1}
	cfg.Presets[config.DefaultPresetName] = p

	r := NewChecker(t.TempDir(), cfg, nil).RunCategory(context.Background(), CategoryGrid)
	if res := byName(r)["grid-size"]; res.Status != StatusWarn {
		t.Fatalf("big grid = %+v", res)
	}

	p.TakeProfit = grid.Range{Min: 1, Max: 2, Step: -1}
	cfg.Presets[config.DefaultPresetName] = p
	r = NewChecker(t.TempDir(), cfg, nil).RunCategory(context.Background(), CategoryGrid)
	if res := byName(r)["grid-size"]; res.Status != StatusFail {
		t.Fatalf("bad step = %+v", res)
	}

	cfg.ActivePreset = "missing"
	r = NewChecker(t.TempDir(), cfg, nil).RunCategory(context.Background(), CategoryGrid)
	if res := byName(r)["active-preset"]; res.Status != StatusFail {
		t.Fatalf("missing preset = %+v", res)
	}
}

func TestRunOne(t *testing.T) {
	c := NewChecker(t.TempDir(), config.Default(), stubPinger{code: 200})
	r, err := c.RunOne(context.Background(), "service-url")
	if err != nil || r.Total != 1 {
		t.Fatalf("RunOne = %+v, %v", r, err)
	}
	if _, err := c.RunOne(context.Background(), "nope"); err == nil {
		t.Fatal("want error for unknown check")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewChecker(t.TempDir(), config.Default(), stubPinger{code: 200}).RunAll(ctx)
	if r.Failed != r.Total {
		t.Fatalf("want all failed, got %+v", r)
	}
}

func TestFormatReport(t *testing.T) {
	r := NewChecker(t.TempDir(), config.Default(), stubPinger{code: 200}).RunAll(context.Background())
	out := FormatReport(r)
	for _, want := range []string{"Parameter Grid", "Optimizer Service", "grid-size", r.Summary()} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
