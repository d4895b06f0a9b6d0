package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

var configJSON bool

// --- config (parent) ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `View and manage sigma-optimizer configuration.

When run without subcommands, displays the effective configuration after
--base-url and SIGMA_OPT_* overrides.

Subcommands:
  presets    List parameter presets
  switch     Switch the active preset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}

		fmt.Println(styles.Title.Render("Configuration"))
		fmt.Println()

		fmt.Println(styles.Label.Render("NAME") + "      " + styles.Value.Render(cfg.Name))
		fmt.Println(styles.Label.Render("ROOT") + "      " + styles.Value.Render(root))
		fmt.Println(styles.Label.Render("SERVICE") + "   " + styles.Value.Render(cfg.Service.BaseURL))
		fmt.Println(styles.Label.Render("TIMEOUT") + "   " + styles.Value.Render(cfg.Service.Timeout().String()))
		fmt.Println(styles.Label.Render("PRESET") + "    " + styles.Value.Render(cfg.ActivePreset))
		fmt.Println(styles.Label.Render("TOP") + "       " + styles.Value.Render(fmt.Sprintf("%d instruments", cfg.Dashboard.TopInstruments)))
		fmt.Println(styles.Label.Render("LOG") + "       " + styles.Value.Render(cfg.LogPath(root)))
		fmt.Println()

		fmt.Println(styles.Divider(50))
		fmt.Println()

		p, err := cfg.Active()
		if err != nil {
			fmt.Println(styles.Red(err.Error()))
			return nil
		}
		fmt.Println(styles.Subtitle.Render("Active preset"))
		fmt.Println(styles.Label.Render("  TICKERS") + "   " + styles.Value.Render(p.Tickers))
		fmt.Println(styles.Label.Render("  DROP") + "      " + styles.Value.Render(p.Drop.String()))
		fmt.Println(styles.Label.Render("  HOLD") + "      " + styles.Value.Render(p.Hold.String()))
		fmt.Println(styles.Label.Render("  TP") + "        " + styles.Value.Render(p.TakeProfit.String()))
		fmt.Println(styles.Label.Render("  CAPITAL") + "   " + styles.Value.Render(fmt.Sprintf("%.2f", p.Capital)))

		if errs := config.Validate(cfg); len(errs) > 0 {
			fmt.Println()
			fmt.Println(styles.Subtitle.Render("Problems"))
			for _, e := range errs {
				fmt.Println("  " + styles.Red("x") + " " + e.Error())
			}
		}
		return nil
	},
}

// --- config presets ---

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List parameter presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println(styles.Title.Render("Presets"))
		fmt.Println()

		presets := cfg.ListPresets()
		if len(presets) == 0 {
			fmt.Println(styles.Dim("  No presets configured in config.json"))
			return nil
		}

		fmt.Printf("  %s  %s  %s  %s  %s\n",
			styles.TableHeader.Width(12).Render("NAME"),
			styles.TableHeader.Width(24).Render("TICKERS"),
			styles.TableHeader.Width(14).Render("DROP"),
			styles.TableHeader.Width(14).Render("HOLD"),
			styles.TableHeader.Width(14).Render("TP"),
		)
		fmt.Println(styles.Divider(86))

		for i, np := range presets {
			row := styles.TableRow(i%2 == 0)
			active := " "
			if np.Name == cfg.ActivePreset {
				active = styles.Cyan("*")
			}
			fmt.Printf("  %s%s %s  %s  %s  %s\n",
				row.Width(11).Render(np.Name),
				active,
				styles.Dim(fmt.Sprintf("%-24s", styles.TruncateWithEllipsis(np.Tickers, 24))),
				styles.Dim(fmt.Sprintf("%-14s", np.Drop)),
				styles.Dim(fmt.Sprintf("%-14s", np.Hold)),
				styles.Dim(fmt.Sprintf("%-14s", np.TakeProfit)),
			)
		}

		fmt.Println()
		fmt.Println(styles.Dim("  * = active preset"))
		return nil
	},
}

// --- config switch ---

var configSwitchCmd = &cobra.Command{
	Use:   "switch <preset>",
	Short: "Switch the active preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		root, err := config.ResolveRoot()
		if err != nil {
			return fmt.Errorf("detecting project root: %w", err)
		}
		if _, err := config.Load(root); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if err := config.SwitchPreset(name); err != nil {
			return fmt.Errorf("switching preset: %w", err)
		}

		fmt.Println(styles.Green("Switched active preset to") + " " + styles.Value.Render(name))
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "print the effective config as JSON")
	configCmd.AddCommand(configPresetsCmd)
	configCmd.AddCommand(configSwitchCmd)
	rootCmd.AddCommand(configCmd)
}
