package config

import (
	"fmt"
	"sort"
)

// NamedPreset pairs a preset with its key in config.json.
type NamedPreset struct {
	Name string
	Preset
}

// Active returns the preset referenced by activePreset. An empty
// activePreset selects the default preset.
func (c *Config) Active() (Preset, error) {
	name := c.ActivePreset
	if name == "" {
		name = DefaultPresetName
	}
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("preset %q not found; available: %v", name, c.PresetNames())
	}
	return p, nil
}

// PresetNames returns the preset keys sorted alphabetically.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for k := range c.Presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ListPresets returns all presets sorted by name.
func (c *Config) ListPresets() []NamedPreset {
	out := make([]NamedPreset, 0, len(c.Presets))
	for _, name := range c.PresetNames() {
		out = append(out, NamedPreset{Name: name, Preset: c.Presets[name]})
	}
	return out
}

// SwitchPreset updates activePreset in config.json. The name must be a key in
// presets.
func SwitchPreset(name string) error {
	cfg := Get()

	if _, ok := cfg.Presets[name]; !ok {
		return fmt.Errorf("preset %q not found; available: %v", name, cfg.PresetNames())
	}

	cfg.ActivePreset = name
	return Save(cfg)
}
