package config

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/Dallionking/sigma-optimizer/internal/client"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Instruments returns the preset's tickers as a cleaned list.
func (p Preset) Instruments() []string {
	return client.ParseInstruments(p.Tickers)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	// --- Service ---
	u, err := url.Parse(cfg.Service.BaseURL)
	switch {
	case cfg.Service.BaseURL == "":
		errs = append(errs, ValidationError{Field: "service.baseURL", Message: "required field is empty"})
	case err != nil:
		errs = append(errs, ValidationError{Field: "service.baseURL", Message: err.Error()})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ValidationError{
			Field:   "service.baseURL",
			Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
		})
	case u.Host == "":
		errs = append(errs, ValidationError{Field: "service.baseURL", Message: "missing host"})
	}
	if cfg.Service.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "service.timeoutSeconds",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.Service.TimeoutSeconds),
		})
	}

	// --- Presets ---
	if len(cfg.Presets) == 0 {
		errs = append(errs, ValidationError{Field: "presets", Message: "at least one preset must be defined"})
	}
	if cfg.ActivePreset != "" {
		if _, ok := cfg.Presets[cfg.ActivePreset]; !ok {
			errs = append(errs, ValidationError{
				Field:   "activePreset",
				Message: fmt.Sprintf("references undefined preset %q", cfg.ActivePreset),
			})
		}
	}
	names := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, validatePreset("presets."+name, cfg.Presets[name])...)
	}

	// --- Dashboard ---
	if cfg.Dashboard.TopInstruments <= 0 {
		errs = append(errs, ValidationError{
			Field:   "dashboard.topInstruments",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.Dashboard.TopInstruments),
		})
	}

	return errs
}

func validatePreset(prefix string, p Preset) []ValidationError {
	var errs []ValidationError

	if len(p.Instruments()) == 0 {
		errs = append(errs, ValidationError{Field: prefix + ".tickers", Message: "at least one ticker is required"})
	}
	if !(p.Capital > 0) {
		errs = append(errs, ValidationError{
			Field:   prefix + ".capital",
			Message: fmt.Sprintf("must be > 0, got %g", p.Capital),
		})
	}

	ranges := []struct {
		field string
		r     grid.Range
	}{
		{"drop", p.Drop},
		{"hold", p.Hold},
		{"takeProfit", p.TakeProfit},
	}
	for _, x := range ranges {
		n, err := x.r.Count()
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Field: prefix + "." + x.field, Message: err.Error()})
		case n == 0:
			errs = append(errs, ValidationError{
				Field:   prefix + "." + x.field,
				Message: fmt.Sprintf("range %s is empty (min > max)", x.r),
			})
		}
	}
	return errs
}
