package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dallionking/sigma-optimizer/internal/config"
)

func withConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "optimizer.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })
	return path
}

func TestVersionInfoReportsTargetService(t *testing.T) {
	path := withConfigFile(t, `{"service":{"baseURL":"http://optimizer.internal:9000"}}`)

	info, err := collectVersionInfo()
	if err != nil {
		t.Fatalf("collectVersionInfo: %v", err)
	}
	if info.Service != "http://optimizer.internal:9000" {
		t.Errorf("service = %q", info.Service)
	}
	if info.Config != path {
		t.Errorf("config = %q, want %q", info.Config, path)
	}
	if info.Preset != config.DefaultPresetName || info.Version != Version {
		t.Errorf("info = %+v", info)
	}
}

func TestVersionInfoSurvivesBrokenConfig(t *testing.T) {
	withConfigFile(t, `{"service":`)

	info, err := collectVersionInfo()
	if err == nil {
		t.Fatal("want the config error to be reported")
	}
	if info.Service != config.Default().Service.BaseURL || info.Config != "" {
		t.Errorf("info = %+v, want defaults", info)
	}
}
