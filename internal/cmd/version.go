package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var (
	versionShort bool
	versionJSON  bool
)

// versionInfo is the --json document of the version command.
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
	Service   string `json:"service"`
	Config    string `json:"config,omitempty"`
	Preset    string `json:"preset"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Display the sigma-optimizer build (version, commit, build date, Go runtime)
together with the optimizer service it talks to and the config.json and
preset it would use. A broken config.json does not fail the command; the
service falls back to the default URL and the problem is shown instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Println(Version)
			return nil
		}
		info, cfgErr := collectVersionInfo()
		if versionJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		row := func(label, value string) {
			fmt.Println(styles.Label.Width(10).Render(label) + styles.Value.Render(value))
		}
		fmt.Println(styles.Cyan(styles.CompactLogo) + "  " + styles.Value.Render("v"+info.Version))
		fmt.Println()
		row("VERSION", info.Version)
		row("COMMIT", info.Commit)
		row("BUILT", info.BuildDate)
		row("GO", info.Go)
		row("OS/ARCH", info.Platform)
		fmt.Println()
		row("SERVICE", info.Service)
		row("PRESET", info.Preset)
		switch {
		case cfgErr != nil:
			row("CONFIG", styles.ErrorText.Render(cfgErr.Error()))
		case info.Config == "":
			row("CONFIG", styles.Dim("none (built-in defaults)"))
		default:
			row("CONFIG", info.Config)
		}
		return nil
	},
}

// collectVersionInfo fills the build fields and, when config.json loads, the
// service URL and active preset it selects.
func collectVersionInfo() (versionInfo, error) {
	info := versionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	root, cfg, err := loadConfig()
	if err != nil {
		cfg = config.Default()
		if u := viper.GetString("base_url"); u != "" {
			cfg.Service.BaseURL = u
		}
	} else {
		path := config.NewPaths(root).Config
		if cfgFile != "" {
			path, _ = filepath.Abs(cfgFile)
		}
		if fileExists(path) {
			info.Config = path
		}
	}
	info.Service = cfg.Service.BaseURL
	info.Preset = cfg.ActivePreset
	if info.Preset == "" {
		info.Preset = config.DefaultPresetName
	}
	return info, err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(versionCmd)
}
