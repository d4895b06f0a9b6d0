package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Dallionking/sigma-optimizer/internal/tui/views"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive optimization dashboard",
	Long: `Launch the full-screen dashboard.

Edit the parameter form (e), run the optimization (enter or r), and switch
between the most traded instruments with the number keys. Logs are written
to the configured dashboard log file; config.json is reloaded on change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		return views.RunDashboard(ctx, views.DashboardOptions{
			Root:    root,
			Config:  cfg,
			Verbose: verbose,
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
