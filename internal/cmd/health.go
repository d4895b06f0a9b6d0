package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/sigma-optimizer/internal/health"
)

var (
	healthCheck    string
	healthCategory string
	healthJSON     bool
)

// errUnhealthy makes the command exit non-zero when a check fails.
var errUnhealthy = errors.New("health checks failed")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configuration and the optimizer service",
	Long: `Run diagnostic health checks.

Checks are grouped into categories:
  project  - config.json present and valid, log directory writable
  grid     - active preset exists, grid size is reasonable
  service  - base URL well formed, service reachable

Use --category to run only a specific group, or --check to run a single
named check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		checker := health.NewChecker(root, cfg, newClient(cfg, newLogger()))
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		var report *health.Report
		switch {
		case healthCheck != "":
			report, err = checker.RunOne(ctx, healthCheck)
			if err != nil {
				return err
			}
		case healthCategory != "":
			report = checker.RunCategory(ctx, healthCategory)
			if report.Total == 0 {
				return fmt.Errorf("unknown category %q (use project, grid or service)", healthCategory)
			}
		default:
			report = checker.RunAll(ctx)
		}

		if healthJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Print(health.FormatReport(report))
		}

		if report.Failed > 0 {
			return errUnhealthy
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthCheck, "check", "", "run a specific named check")
	healthCmd.Flags().StringVar(&healthCategory, "category", "", "run checks in a category: project, grid, or service")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(healthCmd)
}
