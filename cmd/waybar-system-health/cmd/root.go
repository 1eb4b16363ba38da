package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waybarutils/waybar-system-health/internal/aggregate"
	"github.com/waybarutils/waybar-system-health/internal/checks"
	"github.com/waybarutils/waybar-system-health/internal/config"
	"github.com/waybarutils/waybar-system-health/internal/ignore"
	"github.com/waybarutils/waybar-system-health/internal/report"
	"github.com/waybarutils/waybar-system-health/internal/runner"
)

const version = "1.0.0"

var (
	outputFormat string
	ignoreFile   string
	diskConfig   string
	settingsFile string
)

var rootCmd = &cobra.Command{
	Use:     "waybar-system-health",
	Short:   "Aggregate system health checks into one waybar status record",
	Long: `waybar-system-health runs independent health checks (disk usage, btrfs
integrity, systemd state, journal errors, SMART device health), filters
their findings through user ignore rules and prints a single JSON status
record for waybar. Each invocation is one stateless evaluation; waybar
re-invokes it on its own interval.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "waybar", "Output format: waybar|text")
	rootCmd.PersistentFlags().StringVar(&ignoreFile, "ignore-file", "", "Ignore-rule file (default: config dir, or $"+config.EnvIgnore+")")
	rootCmd.PersistentFlags().StringVar(&diskConfig, "disk-config", "", "Disk-threshold file (default: config dir, or $"+config.EnvDisk+")")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Settings file (default: config dir, or $"+config.EnvSettings+")")
}

// Execute runs the root command. Exit status is 0 whenever a status
// record was produced, even at CRITICAL severity: the health result is
// data, not a process failure. Nonzero means the program itself could not
// evaluate (bad configuration).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "waybar-system-health:", err)
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(pathOr(settingsFile, config.SettingsPath))
	if err != nil {
		return err
	}
	rules, err := ignore.Load(pathOr(ignoreFile, config.IgnorePath), checks.Names())
	if err != nil {
		return err
	}
	thresholds, err := config.LoadMountThresholds(pathOr(diskConfig, config.DiskConfigPath))
	if err != nil {
		return err
	}

	var modules []checks.Module
	for _, m := range checks.All(thresholds) {
		if settings.ModuleEnabled(m.Name()) {
			modules = append(modules, m)
		}
	}

	results := runner.Run(cmd.Context(), modules, settings.ModuleTimeout)
	st := aggregate.Aggregate(runner.Findings(results), rules, settings.ModuleDetailCap)

	switch strings.ToLower(outputFormat) {
	case "waybar":
		out, err := report.ExportWaybar(st)
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "text":
		fmt.Print(report.ExportText(st))
	default:
		return fmt.Errorf("unknown format %q, expected waybar or text", outputFormat)
	}
	return nil
}

func pathOr(override string, fallback func() string) string {
	if override != "" {
		return override
	}
	return fallback()
}
