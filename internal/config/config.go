// Package config locates and loads the user-editable configuration: the
// ignore-rule file, the disk-threshold file and the optional settings
// file, all living under $XDG_CONFIG_HOME/waybar-system-health/.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvIgnore overrides the ignore-rule file path.
	EnvIgnore = "WAYBAR_SYSTEM_HEALTH_IGNORE"
	// EnvDisk overrides the disk-threshold file path.
	EnvDisk = "WAYBAR_SYSTEM_HEALTH_DISK"
	// EnvSettings overrides the settings file path.
	EnvSettings = "WAYBAR_SYSTEM_HEALTH_SETTINGS"
)

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "waybar-system-health")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to a relative path; loads treat missing files as empty.
		return "waybar-system-health"
	}
	return filepath.Join(home, ".config", "waybar-system-health")
}

// IgnorePath returns the ignore-rule file path, env override first.
func IgnorePath() string {
	if p := os.Getenv(EnvIgnore); p != "" {
		return p
	}
	return filepath.Join(Dir(), "ignore")
}

// DiskConfigPath returns the disk-threshold file path, env override first.
func DiskConfigPath() string {
	if p := os.Getenv(EnvDisk); p != "" {
		return p
	}
	return filepath.Join(Dir(), "disk.json")
}

// SettingsPath returns the settings file path, env override first.
func SettingsPath() string {
	if p := os.Getenv(EnvSettings); p != "" {
		return p
	}
	return filepath.Join(Dir(), "settings.yaml")
}

// MountThreshold configures usage thresholds for one mountpoint.
type MountThreshold struct {
	Path     string  `json:"path"`
	Warn     float64 `json:"warn"`
	Critical float64 `json:"critical"`
}

func (t MountThreshold) validate() error {
	if t.Path == "" {
		return fmt.Errorf("mountpoint path must be set")
	}
	if t.Warn < 0 || t.Warn > 100 {
		return fmt.Errorf("%s: warn threshold must be between 0 and 100", t.Path)
	}
	if t.Critical < 0 || t.Critical > 100 {
		return fmt.Errorf("%s: critical threshold must be between 0 and 100", t.Path)
	}
	if t.Warn > t.Critical {
		return fmt.Errorf("%s: warn threshold cannot exceed critical threshold", t.Path)
	}
	return nil
}

// LoadMountThresholds reads the disk-threshold file: a JSON list of
// {path, warn, critical} objects. A missing file yields an empty list; a
// malformed file or an invalid record is a configuration error and aborts
// the run, since trusting half a threshold file would hide real problems.
func LoadMountThresholds(path string) ([]MountThreshold, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read disk config %s: %w", path, err)
	}

	var thresholds []MountThreshold
	if err := json.Unmarshal(data, &thresholds); err != nil {
		return nil, fmt.Errorf("disk config %s is not a valid JSON list: %w", path, err)
	}

	for i, t := range thresholds {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("disk config %s entry #%d: %w", path, i+1, err)
		}
	}
	return thresholds, nil
}
