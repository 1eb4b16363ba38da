package checks

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/waybarutils/waybar-system-health/internal/config"
	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// statfsFunc samples filesystem usage for a mountpoint. Swapped out in
// tests.
type statfsFunc func(path string) (total, free uint64, err error)

func statfs(path string) (uint64, uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, err
	}
	bsize := uint64(st.Frsize)
	return st.Blocks * bsize, st.Bavail * bsize, nil
}

// DiskModule checks usage of configured mountpoints against their warn
// and critical thresholds.
type DiskModule struct {
	thresholds []config.MountThreshold
	statfs     statfsFunc
}

func NewDiskModule(thresholds []config.MountThreshold) *DiskModule {
	return &DiskModule{thresholds: thresholds, statfs: statfs}
}

func (m *DiskModule) Name() string { return NameDisk }

func (m *DiskModule) Description() string {
	return "Disk usage of configured mountpoints vs warn/critical thresholds"
}

func (m *DiskModule) Check(ctx context.Context) ([]finding.Finding, error) {
	if len(m.thresholds) == 0 {
		// Deliberate operator reminder: an untracked disk is not a disk
		// problem, but silence here would look like health.
		return []finding.Finding{{
			Module:   NameDisk,
			Severity: finding.Warning,
			Summary:  "no mountpoints configured",
			Detail:   "Disk usage: no mountpoints configured\nConfigure mounts in disk.json (see README)",
		}}, nil
	}

	var findings []finding.Finding
	for _, t := range m.thresholds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		findings = append(findings, m.checkMount(t))
	}
	return findings, nil
}

func (m *DiskModule) checkMount(t config.MountThreshold) finding.Finding {
	total, free, err := m.statfs(t.Path)
	if err != nil {
		detail := fmt.Sprintf("%s: error reading usage (%v)", t.Path, err)
		if os.IsNotExist(err) {
			detail = fmt.Sprintf("%s: not found", t.Path)
		} else if os.IsPermission(err) {
			detail = fmt.Sprintf("%s: permission denied", t.Path)
		}
		return finding.Finding{
			Module:   NameDisk,
			Severity: finding.Warning,
			Summary:  fmt.Sprintf("%s unreadable", t.Path),
			Detail:   detail,
			Device:   t.Path,
		}
	}
	if total == 0 {
		return finding.Finding{
			Module:   NameDisk,
			Severity: finding.Warning,
			Summary:  fmt.Sprintf("%s unreadable", t.Path),
			Detail:   fmt.Sprintf("%s: unable to determine size", t.Path),
			Device:   t.Path,
		}
	}
	return evaluateMount(t, total, free)
}

// evaluateMount classifies one mountpoint's usage against its thresholds.
func evaluateMount(t config.MountThreshold, total, free uint64) finding.Finding {
	usedPercent := float64(total-free) / float64(total) * 100

	severity := finding.OK
	marker := "✓"
	switch {
	case usedPercent >= t.Critical:
		severity = finding.Critical
		marker = "✗"
	case usedPercent >= t.Warn:
		severity = finding.Warning
		marker = "!"
	}

	const gib = 1 << 30
	detail := fmt.Sprintf("[%s] %s: %.1f%% used (%.1f/%.1f GiB free) (warn %.1f%%, crit %.1f%%)",
		marker, t.Path, usedPercent,
		float64(free)/gib, float64(total)/gib,
		t.Warn, t.Critical)

	return finding.Finding{
		Module:   NameDisk,
		Severity: severity,
		Summary:  fmt.Sprintf("%s at %.0f%%", t.Path, usedPercent),
		Detail:   detail,
		Device:   t.Path,
	}
}
