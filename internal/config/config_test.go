package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Service.BaseURL != "http://127.0.0.1:8000" || cfg.Service.Timeout() != 120*time.Second {
		t.Fatalf("service = %+v", cfg.Service)
	}
	p, err := cfg.Active()
	if err != nil {
		t.Fatal(err)
	}
	if p.Tickers != "MSFT, IBM, ^GDAXI" || p.Hold != (grid.Range{Min: 250, Max: 255, Step: 5}) || p.Capital != 10000 {
		t.Fatalf("default preset = %+v", p)
	}
	if got := p.Instruments(); len(got) != 3 || got[2] != "^GDAXI" {
		t.Fatalf("instruments = %v", got)
	}
	if Root() != dir || Get() != cfg {
		t.Fatal("Load did not cache config")
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("defaults invalid: %v", errs)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "service": {"baseURL": "http://optimizer:9000"},
  "activePreset": "fast",
  "presets": {
    "fast": {"tickers": "AAPL", "drop": {"min": 1, "max": 2, "step": 1}, "hold": {"min": 5, "max": 5, "step": 1}, "takeProfit": {"min": 3, "max": 3, "step": 1}, "capital": 500}
  }
}`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Service.BaseURL != "http://optimizer:9000" || cfg.Service.TimeoutSeconds != 120 {
		t.Fatalf("service = %+v", cfg.Service)
	}
	p, err := cfg.Active()
	if err != nil || p.Tickers != "AAPL" || p.Capital != 500 {
		t.Fatalf("active = %+v, %v", p, err)
	}
	if names := cfg.PresetNames(); len(names) != 2 || names[0] != "default" || names[1] != "fast" {
		t.Fatalf("presets = %v", names)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"service":`)
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "parsing config.json") {
		t.Fatalf("want parse error, got %v", err)
	}
}

func TestSwitchPreset(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"presets": {"alt": {"tickers": "SAP", "drop": {"min":1,"max":1,"step":1}, "hold": {"min":1,"max":1,"step":1}, "takeProfit": {"min":1,"max":1,"step":1}, "capital": 1}}}`)
	if _, err := Load(dir); err != nil {
		t.Fatal(err)
	}
	if err := SwitchPreset("missing"); err == nil {
		t.Fatal("want error for unknown preset")
	}
	if err := SwitchPreset("alt"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ActivePreset != "alt" {
		t.Fatalf("activePreset = %q", cfg.ActivePreset)
	}
	if list := Get().ListPresets(); len(list) != 2 || list[0].Name != "alt" {
		t.Fatalf("ListPresets = %+v", list)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Service.BaseURL = "ftp://host"
	cfg.Service.TimeoutSeconds = 0
	cfg.ActivePreset = "nope"
	cfg.Dashboard.TopInstruments = 0
	cfg.Presets["bad"] = Preset{
		Tickers:    " , ",
		Drop:       grid.Range{Min: 1, Max: 2, Step: 0},
		Hold:       grid.Range{Min: 9, Max: 2, Step: 1},
		TakeProfit: grid.Range{Min: 1, Max: 2, Step: 1},
	}

	fields := map[string]bool{}
	for _, e := range Validate(cfg) {
		fields[e.Field] = true
	}
	for _, want := range []string{
		"service.baseURL",
		"service.timeoutSeconds",
		"activePreset",
		"dashboard.topInstruments",
		"presets.bad.tickers",
		"presets.bad.capital",
		"presets.bad.drop",
		"presets.bad.hold",
	} {
		if !fields[want] {
			t.Errorf("missing validation error for %s (got %v)", want, fields)
		}
	}
	if fields["presets.bad.takeProfit"] || fields["presets.default.drop"] {
		t.Errorf("unexpected errors: %v", fields)
	}
}

func TestNewPathsUsesConfiguredLogFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"dashboard": {"logFile": "logs/opt.log"}}`)
	if _, err := Load(dir); err != nil {
		t.Fatal(err)
	}
	p := NewPaths(dir)
	if p.LogFile != filepath.Join(dir, "logs", "opt.log") || p.Config != filepath.Join(dir, FileName) {
		t.Fatalf("paths = %+v", p)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{}`)
	if _, err := Load(dir); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reloads := w.Watch(ctx)

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, `{"service": {"timeoutSeconds": 7}}`)

	select {
	case r := <-reloads:
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		if r.Config.Service.TimeoutSeconds != 7 || Get().Service.TimeoutSeconds != 7 {
			t.Fatalf("reloaded config = %+v", r.Config.Service)
		}
	case <-ctx.Done():
		t.Fatal("no reload received")
	}
}
