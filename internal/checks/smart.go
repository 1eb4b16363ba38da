package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// SmartModule checks storage device health via smartctl. Device discovery
// and per-device queries run through sudo, matching the smartmontools
// permission model.
type SmartModule struct {
	run commandRunner
}

func NewSmartModule() *SmartModule {
	return &SmartModule{run: runCommand}
}

func (m *SmartModule) Name() string { return NameSmart }

func (m *SmartModule) Description() string {
	return "SMART health of detected storage devices"
}

// smartDevice is one device reported by `smartctl --scan-open`.
type smartDevice struct {
	Path string
	Type string
}

// smartctlExitBit maps one bit of smartctl's exit status to a severity
// and message. Bits 1/2/4 are tool-side problems; 8..64 are the device
// reporting real trouble.
type smartctlExitBit struct {
	Bit      int
	Severity finding.Severity
	Message  string
}

var smartctlExitBits = []smartctlExitBit{
	{1, finding.Warning, "smartctl: command line did not parse"},
	{2, finding.Warning, "smartctl: failed to open device"},
	{4, finding.Warning, "smartctl: SMART command failed"},
	{8, finding.Critical, "SMART overall-health self-assessment reported failure"},
	{16, finding.Critical, "At least one prefailure attribute is below threshold"},
	{32, finding.Critical, "At least one usage attribute is below threshold"},
	{64, finding.Critical, "SMART self-test log contains errors"},
	{128, finding.Warning, "A previous selective self-test is pending completion"},
}

func (m *SmartModule) Check(ctx context.Context) ([]finding.Finding, error) {
	code, out, errOut, err := m.run(ctx, "sudo", "smartctl", "--scan-open")
	if err != nil {
		return nil, err
	}
	if code == codeNotFound {
		return []finding.Finding{{
			Module:   NameSmart,
			Severity: finding.Warning,
			Summary:  "smartctl not found",
			Detail:   "SMART: smartctl command not found\nInstall smartmontools to enable SMART health checks.",
		}}, nil
	}

	devices := parseScanOutput(out)
	if len(devices) == 0 {
		detail := "SMART: no devices detected via 'smartctl --scan-open'"
		if ln := firstLine(errOut, ""); ln != "" {
			detail += "\n  " + ln
		}
		detail += "\nMake sure your sudo permissions are set per the README"
		return []finding.Finding{{
			Module:   NameSmart,
			Severity: finding.Warning,
			Summary:  "no SMART devices detected",
			Detail:   detail,
		}}, nil
	}

	var findings []finding.Finding
	for _, dev := range devices {
		f, err := m.checkDevice(ctx, dev)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}

func (m *SmartModule) checkDevice(ctx context.Context, dev smartDevice) (finding.Finding, error) {
	code, out, errOut, err := m.run(ctx, "sudo", "smartctl", "-a", dev.Path)
	if err != nil {
		return finding.Finding{}, err
	}
	if code == codeNotFound {
		return finding.Finding{
			Module:   NameSmart,
			Severity: finding.Warning,
			Summary:  dev.Path + ": smartctl not found",
			Detail:   fmt.Sprintf("%s: smartctl command not found (unexpected during check)", dev.Path),
			Device:   dev.Path,
		}, nil
	}

	exitMessages := decodeSmartctlExit(code)
	healthLine := extractHealthLine(out)
	if healthLine == "" {
		healthLine = extractHealthLine(errOut)
	}
	severity := smartSeverity(exitMessages, healthLine)

	marker := map[finding.Severity]string{
		finding.OK:       "✓",
		finding.Warning:  "!",
		finding.Critical: "✗",
	}[severity]

	var detail strings.Builder
	fmt.Fprintf(&detail, "[%s] %s: %s", marker, dev.Path, summarizeHealth(healthLine, severity))
	for _, em := range exitMessages {
		prefix := map[finding.Severity]string{
			finding.OK:       "info",
			finding.Warning:  "warn",
			finding.Critical: "crit",
		}[em.Severity]
		fmt.Fprintf(&detail, "\n  - (%s) %s", prefix, em.Message)
	}
	if code != 0 && len(exitMessages) == 0 && (strings.TrimSpace(errOut) != "" || strings.TrimSpace(out) == "") {
		detail.WriteString("\n" + commandErrorDetail("sudo smartctl -a", code, out, errOut))
	} else if strings.TrimSpace(errOut) != "" && code == 0 {
		detail.WriteString("\n  stderr:")
		for _, ln := range nonEmptyLines(errOut) {
			detail.WriteString("\n    " + ln)
		}
	}

	return finding.Finding{
		Module:   NameSmart,
		Severity: severity,
		Summary:  fmt.Sprintf("%s: %s", dev.Path, shortHealth(severity)),
		Detail:   detail.String(),
		Device:   dev.Path,
	}, nil
}

// parseScanOutput extracts devices from `smartctl --scan-open` output.
// Lines look like "/dev/sda -d sat # /dev/sda [SAT], ATA device"; the
// comment part is stripped.
func parseScanOutput(out string) []smartDevice {
	var devices []smartDevice
	for _, ln := range nonEmptyLines(out) {
		if strings.HasPrefix(ln, "#") {
			continue
		}
		if i := strings.Index(ln, "#"); i >= 0 {
			ln = strings.TrimSpace(ln[:i])
		}
		tokens := strings.Fields(ln)
		if len(tokens) == 0 {
			continue
		}
		dev := smartDevice{Path: tokens[0]}
		if len(tokens) >= 3 && tokens[1] == "-d" {
			dev.Type = tokens[2]
		}
		devices = append(devices, dev)
	}
	return devices
}

// decodeSmartctlExit expands smartctl's bitmask exit status into its set
// messages.
func decodeSmartctlExit(code int) []smartctlExitBit {
	if code <= 0 {
		return nil
	}
	var set []smartctlExitBit
	for _, b := range smartctlExitBits {
		if code&b.Bit != 0 {
			set = append(set, b)
		}
	}
	return set
}

// smartSeverity combines exit-bit severities with the overall-health line:
// the worst signal wins.
func smartSeverity(exitMessages []smartctlExitBit, healthLine string) finding.Severity {
	worst := finding.OK
	for _, em := range exitMessages {
		worst = finding.Worst(worst, em.Severity)
	}
	if healthLine != "" {
		worst = finding.Worst(worst, classifyHealthLine(healthLine))
	}
	return worst
}

func classifyHealthLine(healthLine string) finding.Severity {
	summary := strings.ToLower(healthLine)
	switch {
	case containsAny(summary, "fail", "fault", "corrupt"):
		return finding.Critical
	case containsAny(summary, "unknown", "n/a", "not supported"):
		return finding.Warning
	case containsAny(summary, "pass", "ok", "good"):
		return finding.OK
	default:
		return finding.Warning
	}
}

// extractHealthLine finds the SMART overall-health line in smartctl
// output, if any.
func extractHealthLine(text string) string {
	for _, ln := range nonEmptyLines(text) {
		lower := strings.ToLower(ln)
		if strings.Contains(lower, "smart") &&
			containsAny(lower, "health", "overall", "self-assessment") {
			return ln
		}
	}
	return ""
}

func summarizeHealth(healthLine string, severity finding.Severity) string {
	if healthLine != "" {
		return healthLine
	}
	return map[finding.Severity]string{
		finding.OK:       "SMART status OK",
		finding.Warning:  "SMART status uncertain",
		finding.Critical: "SMART reports failure",
	}[severity]
}

func shortHealth(severity finding.Severity) string {
	return map[finding.Severity]string{
		finding.OK:       "healthy",
		finding.Warning:  "uncertain",
		finding.Critical: "failing",
	}[severity]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
