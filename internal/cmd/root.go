package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dallionking/sigma-optimizer/internal/client"
	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/logging"
)

// envPrefix namespaces the environment overrides, e.g. SIGMA_OPT_BASE_URL.
const envPrefix = "SIGMA_OPT"

var (
	cfgFile string
	baseURL string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "sigma-optimizer",
	Short: "Terminal client for the strategy optimizer service",
	Long: `Sigma Optimizer: batch-optimize a mean-reversion strategy from your terminal

Turns drop / hold / take-profit ranges into one optimization request,
shows the best parameter set with its trades and equity curve, and charts
prices with buy and sell markers for the instruments that traded.

Run without arguments to open the dashboard.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCmd.RunE(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.json in the project root)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "optimizer service URL (env "+envPrefix+"_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func initConfig() {
	// .env sits next to config.json; a missing file is fine.
	if root, err := config.ResolveRoot(); err == nil {
		if err := godotenv.Load(config.NewPaths(root).Env); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	_ = viper.BindEnv("timeout")

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// loadConfig resolves the project root and loads config.json, applying
// --base-url and SIGMA_OPT_* overrides.
func loadConfig() (string, *config.Config, error) {
	var (
		root string
		cfg  *config.Config
		err  error
	)
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return "", nil, fmt.Errorf("resolving --config: %w", err)
		}
		root = filepath.Dir(abs)
		cfg, err = config.LoadFile(abs)
		if err != nil {
			return "", nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		root, err = config.ResolveRoot()
		if err != nil {
			return "", nil, fmt.Errorf("detecting project root: %w", err)
		}
		cfg, err = config.Load(root)
		if err != nil {
			return "", nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if u := viper.GetString("base_url"); u != "" {
		cfg.Service.BaseURL = u
	}
	if viper.IsSet("timeout") {
		cfg.Service.TimeoutSeconds = viper.GetInt("timeout")
	}
	return root, cfg, nil
}

// newLogger returns the stderr logger used by non-interactive commands.
func newLogger() zerolog.Logger {
	log, _, err := logging.New(logging.Options{Verbose: verbose, NoColor: noColor})
	if err != nil {
		return zerolog.Nop()
	}
	return log
}

func newClient(cfg *config.Config, log zerolog.Logger) *client.Client {
	return client.New(cfg.Service.BaseURL, cfg.Service.Timeout(), log)
}

// signalContext is cancelled on Ctrl+C so in-flight requests abort.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
