package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// SystemdModule checks the service manager: overall system and user state
// plus failed units in both scopes.
type SystemdModule struct {
	run commandRunner
}

func NewSystemdModule() *SystemdModule {
	return &SystemdModule{run: runCommand}
}

func (m *SystemdModule) Name() string { return NameSystemd }

func (m *SystemdModule) Description() string {
	return "systemd system/user state and failed units"
}

func (m *SystemdModule) Check(ctx context.Context) ([]finding.Finding, error) {
	var findings []finding.Finding
	for _, user := range []bool{false, true} {
		fs, err := m.stateFindings(ctx, user)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fs...)

		fs, err = m.failedUnitFindings(ctx, user)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fs...)
	}
	return findings, nil
}

func scopeLabel(user bool) string {
	if user {
		return "user"
	}
	return "system"
}

func (m *SystemdModule) stateFindings(ctx context.Context, user bool) ([]finding.Finding, error) {
	args := []string{"is-system-running"}
	if user {
		args = append([]string{"--user"}, args...)
	}
	code, out, errOut, err := m.run(ctx, "systemctl", args...)
	if err != nil {
		return nil, err
	}
	if code == codeNotFound {
		return []finding.Finding{{
			Module:   NameSystemd,
			Severity: finding.Warning,
			Summary:  "systemctl missing",
			Detail:   "systemctl missing",
		}}, nil
	}

	state := firstLine(out, firstLine(errOut, "unknown"))
	severity := classifySystemdState(state, code)
	if severity == finding.OK {
		return nil, nil
	}
	return []finding.Finding{{
		Module:   NameSystemd,
		Severity: severity,
		Summary:  fmt.Sprintf("%s state %s", scopeLabel(user), state),
		Detail:   fmt.Sprintf("systemd (%s): %s", scopeLabel(user), state),
	}}, nil
}

// classifySystemdState maps `systemctl is-system-running` output to a
// severity. degraded/maintenance/failed mean broken units or an unhealthy
// manager; transitional or unreadable states only warrant a warning.
func classifySystemdState(state string, code int) finding.Severity {
	switch state {
	case "degraded", "maintenance", "failed":
		return finding.Critical
	case "starting", "unknown":
		return finding.Warning
	}
	if code > 0 {
		return finding.Warning
	}
	return finding.OK
}

func (m *SystemdModule) failedUnitFindings(ctx context.Context, user bool) ([]finding.Finding, error) {
	args := []string{"--failed", "--no-legend", "--plain"}
	if user {
		args = append([]string{"--user"}, args...)
	}
	code, out, errOut, err := m.run(ctx, "systemctl", args...)
	if err != nil {
		return nil, err
	}
	if code == codeNotFound {
		return []finding.Finding{{
			Module:   NameSystemd,
			Severity: finding.Warning,
			Summary:  "systemctl missing",
			Detail:   "systemctl missing",
		}}, nil
	}
	if code != 0 {
		label := "systemctl --failed"
		if user {
			label = "systemctl --user --failed"
		}
		return []finding.Finding{{
			Module:   NameSystemd,
			Severity: finding.Warning,
			Summary:  "cannot list failed units",
			Detail:   commandErrorDetail(label, code, out, errOut),
		}}, nil
	}

	var findings []finding.Finding
	for _, unit := range parseFailedUnits(out) {
		findings = append(findings, finding.Finding{
			Module:   NameSystemd,
			Severity: finding.Critical,
			Summary:  fmt.Sprintf("failed unit %s", unit),
			Detail:   fmt.Sprintf("failed %s unit: %s", scopeLabel(user), unit),
		})
	}
	return findings, nil
}

// parseFailedUnits extracts unit names from `systemctl --failed
// --no-legend --plain` output: the unit name is the first column.
func parseFailedUnits(out string) []string {
	var units []string
	for _, ln := range nonEmptyLines(out) {
		units = append(units, strings.Fields(ln)[0])
	}
	return units
}
