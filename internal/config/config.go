package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

// FileName is the project configuration file looked up by DetectProjectRoot.
const FileName = "config.json"

// Config represents the full config.json schema for sigma-optimizer.
type Config struct {
	Name         string            `json:"name" mapstructure:"name"`
	Service      ServiceConfig     `json:"service" mapstructure:"service"`
	ActivePreset string            `json:"activePreset" mapstructure:"activePreset"`
	Presets      map[string]Preset `json:"presets" mapstructure:"presets"`
	Dashboard    DashboardConfig   `json:"dashboard" mapstructure:"dashboard"`
}

// ServiceConfig locates the optimizer backend.
type ServiceConfig struct {
	BaseURL        string `json:"baseURL" mapstructure:"baseURL"`
	TimeoutSeconds int    `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
}

// Timeout returns the per-request timeout.
func (s ServiceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Preset is a named set of form defaults: instruments, parameter ranges and
// starting capital.
type Preset struct {
	DisplayName string     `json:"displayName,omitempty" mapstructure:"displayName"`
	Tickers     string     `json:"tickers" mapstructure:"tickers"`
	Drop        grid.Range `json:"drop" mapstructure:"drop"`
	Hold        grid.Range `json:"hold" mapstructure:"hold"`
	TakeProfit  grid.Range `json:"takeProfit" mapstructure:"takeProfit"`
	Capital     float64    `json:"capital" mapstructure:"capital"`
}

// DashboardConfig tunes the interactive dashboard.
type DashboardConfig struct {
	TopInstruments int    `json:"topInstruments" mapstructure:"topInstruments"`
	LogFile        string `json:"logFile" mapstructure:"logFile"`
}

// DefaultPresetName is the preset present in every configuration.
const DefaultPresetName = "default"

// DefaultPreset mirrors the form defaults of the web dashboard.
func DefaultPreset() Preset {
	return Preset{
		DisplayName: "MSFT / IBM / DAX",
		Tickers:     "MSFT, IBM, ^GDAXI",
		Drop:        grid.Range{Min: 5, Max: 8, Step: 1},
		Hold:        grid.Range{Min: 250, Max: 255, Step: 5},
		TakeProfit:  grid.Range{Min: 5, Max: 8, Step: 1},
		Capital:     10000,
	}
}

// Default returns the configuration used when no config.json exists.
func Default() *Config {
	return &Config{
		Name: "sigma-optimizer",
		Service: ServiceConfig{
			BaseURL:        "http://127.0.0.1:8000",
			TimeoutSeconds: 120,
		},
		ActivePreset: DefaultPresetName,
		Presets:      map[string]Preset{DefaultPresetName: DefaultPreset()},
		Dashboard: DashboardConfig{
			TopInstruments: 5,
			LogFile:        "sigma-optimizer.log",
		},
	}
}

// singleton holds the global loaded config and the project root path.
var (
	globalCfg  *Config
	globalRoot string
	mu         sync.RWMutex
)

// Load reads config.json from the given project root directory, layered over
// Default. A missing file is not an error. The result is cached for Get.
func Load(projectRoot string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(projectRoot, FileName))
	if err != nil {
		return nil, err
	}

	mu.Lock()
	globalCfg = cfg
	globalRoot = projectRoot
	mu.Unlock()

	return cfg, nil
}

// LoadFile reads one config file over Default without touching the cache.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Get returns the cached global config. It panics if Load has not been called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		panic("config.Get() called before config.Load()")
	}
	return globalCfg
}

// Root returns the project root directory set during Load.
func Root() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalRoot
}

// Save writes the provided config back to config.json in the project root.
func Save(cfg *Config) error {
	mu.RLock()
	root := globalRoot
	mu.RUnlock()

	if root == "" {
		return fmt.Errorf("cannot save: project root not set (call Load first)")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	cfgPath := filepath.Join(root, FileName)
	if err := os.WriteFile(cfgPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config.json: %w", err)
	}

	mu.Lock()
	globalCfg = cfg
	mu.Unlock()

	return nil
}
