package health

import (
	"context"
	"fmt"
	"time"

	"github.com/Dallionking/sigma-optimizer/internal/config"
)

// Status represents the result of a single health check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

// String returns the lowercase text representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the display symbol for the status.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "+"
	case StatusWarn:
		return "!"
	case StatusFail:
		return "x"
	default:
		return "?"
	}
}

// MarshalText encodes the status by name for --json output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Categories in display order.
const (
	CategoryProject = "project"
	CategoryGrid    = "grid"
	CategoryService = "service"
)

// CheckResult holds the result of a single check.
type CheckResult struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Status   Status        `json:"status"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"durationNs"`
}

// Report holds results of all checks.
type Report struct {
	Results  []CheckResult `json:"results"`
	Passed   int           `json:"passed"`
	Warned   int           `json:"warned"`
	Failed   int           `json:"failed"`
	Total    int           `json:"total"`
	Duration time.Duration `json:"durationNs"`
	Healthy  bool          `json:"healthy"`
}

// Check is a named, categorized health check function.
type Check struct {
	Name     string
	Category string
	Fn       func(ctx context.Context) CheckResult
}

// Pinger reaches the optimizer service. *client.Client implements it.
type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

// Checker runs all registered health checks against a project.
type Checker struct {
	checks      []Check
	projectRoot string
	cfg         *config.Config
	service     Pinger
}

// NewChecker creates a health checker for the given project root and loaded
// config. With a nil service the reachability check fails.
func NewChecker(projectRoot string, cfg *config.Config, service Pinger) *Checker {
	c := &Checker{
		projectRoot: projectRoot,
		cfg:         cfg,
		service:     service,
	}
	c.registerChecks()
	return c
}

// add registers a single check.
func (c *Checker) add(name, category string, fn func(ctx context.Context) CheckResult) {
	c.checks = append(c.checks, Check{
		Name:     name,
		Category: category,
		Fn:       fn,
	})
}

// Names lists the registered checks in run order.
func (c *Checker) Names() []string {
	names := make([]string, len(c.checks))
	for i, ch := range c.checks {
		names[i] = ch.Name
	}
	return names
}

// RunAll runs every registered check and returns a report.
func (c *Checker) RunAll(ctx context.Context) *Report {
	return c.run(ctx, func(Check) bool { return true })
}

// RunCategory runs only the checks matching the given category.
func (c *Checker) RunCategory(ctx context.Context, category string) *Report {
	return c.run(ctx, func(ch Check) bool { return ch.Category == category })
}

// RunOne runs the single named check.
func (c *Checker) RunOne(ctx context.Context, name string) (*Report, error) {
	for _, ch := range c.checks {
		if ch.Name == name {
			return c.run(ctx, func(x Check) bool { return x.Name == name }), nil
		}
	}
	return nil, fmt.Errorf("unknown check %q; available: %v", name, c.Names())
}

func (c *Checker) run(ctx context.Context, match func(Check) bool) *Report {
	start := time.Now()
	var results []CheckResult

	for _, ch := range c.checks {
		if !match(ch) {
			continue
		}
		if ctx.Err() != nil {
			results = append(results, CheckResult{
				Name:     ch.Name,
				Category: ch.Category,
				Status:   StatusFail,
				Message:  "context cancelled",
			})
			continue
		}
		t := time.Now()
		r := ch.Fn(ctx)
		r.Duration = time.Since(t)
		r.Name = ch.Name
		r.Category = ch.Category
		results = append(results, r)
	}

	return buildReport(results, time.Since(start))
}

// buildReport aggregates a slice of results into a Report.
func buildReport(results []CheckResult, dur time.Duration) *Report {
	r := &Report{
		Results:  results,
		Total:    len(results),
		Duration: dur,
	}
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			r.Passed++
		case StatusWarn:
			r.Warned++
		case StatusFail:
			r.Failed++
		}
	}
	r.Healthy = r.Failed == 0
	return r
}
