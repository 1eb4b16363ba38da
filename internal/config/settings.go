package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds each check module's run. A slow module must not
// stall the status bar past its own polling interval.
const DefaultTimeout = 15 * time.Second

// Settings is the optional YAML settings file. Everything has a default;
// an absent file means an all-default configuration.
type Settings struct {
	// Timeout is the per-module timeout as a duration string, e.g. "15s".
	Timeout string `yaml:"timeout,omitempty"`

	// Modules holds per-module overrides keyed by module name.
	Modules map[string]ModuleSettings `yaml:"modules,omitempty"`

	timeout time.Duration
}

// ModuleSettings overrides behavior for one check module.
type ModuleSettings struct {
	// Enabled defaults to true when unset.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Timeout overrides the global per-module timeout.
	Timeout string `yaml:"timeout,omitempty"`

	// MaxDetailLines caps the module's tooltip entries; 0 means
	// unlimited. Unset keeps the module's default cap.
	MaxDetailLines *int `yaml:"max_detail_lines,omitempty"`

	timeout time.Duration
}

// defaultDetailCaps are the tooltip-entry caps used when the settings
// file does not override them. Journal and systemd can produce dozens of
// near-identical entries; everything else stays unbounded.
var defaultDetailCaps = map[string]int{
	"journal": 15,
	"systemd": 10,
}

// DefaultSettings returns the configuration used when no settings file
// exists.
func DefaultSettings() *Settings {
	return &Settings{timeout: DefaultTimeout}
}

// LoadSettings reads the settings file. A missing file yields defaults;
// malformed YAML or an unparseable duration is a configuration error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}

	s.timeout = DefaultTimeout
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("settings %s: invalid timeout %q", path, s.Timeout)
		}
		s.timeout = d
	}
	for name, ms := range s.Modules {
		if ms.MaxDetailLines != nil && *ms.MaxDetailLines < 0 {
			return nil, fmt.Errorf("settings %s: module %s: max_detail_lines must not be negative", path, name)
		}
		if ms.Timeout == "" {
			continue
		}
		d, err := time.ParseDuration(ms.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("settings %s: module %s: invalid timeout %q", path, name, ms.Timeout)
		}
		ms.timeout = d
		s.Modules[name] = ms
	}
	return &s, nil
}

// ModuleEnabled reports whether the named module should run.
func (s *Settings) ModuleEnabled(name string) bool {
	ms, ok := s.Modules[name]
	if !ok || ms.Enabled == nil {
		return true
	}
	return *ms.Enabled
}

// ModuleDetailCap returns how many tooltip entries the named module may
// contribute before the aggregator collapses the rest; 0 means
// unlimited.
func (s *Settings) ModuleDetailCap(name string) int {
	if ms, ok := s.Modules[name]; ok && ms.MaxDetailLines != nil {
		return *ms.MaxDetailLines
	}
	return defaultDetailCaps[name]
}

// ModuleTimeout returns the timeout for the named module.
func (s *Settings) ModuleTimeout(name string) time.Duration {
	if ms, ok := s.Modules[name]; ok && ms.timeout > 0 {
		return ms.timeout
	}
	if s.timeout > 0 {
		return s.timeout
	}
	return DefaultTimeout
}
