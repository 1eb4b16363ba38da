package checks

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waybarutils/waybar-system-health/internal/config"
	"github.com/waybarutils/waybar-system-health/internal/finding"
)

const gib = 1 << 30

func TestEvaluateMount(t *testing.T) {
	threshold := config.MountThreshold{Path: "/", Warn: 80, Critical: 90}

	tests := []struct {
		name  string
		total uint64
		free  uint64
		want  finding.Severity
	}{
		{"well below warn", 100 * gib, 60 * gib, finding.OK},
		{"at warn", 100 * gib, 20 * gib, finding.Warning},
		{"between warn and critical", 100 * gib, 15 * gib, finding.Warning},
		{"at critical", 100 * gib, 10 * gib, finding.Critical},
		{"nearly full", 100 * gib, 1 * gib, finding.Critical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := evaluateMount(threshold, tt.total, tt.free)
			assert.Equal(t, tt.want, f.Severity)
			assert.Equal(t, NameDisk, f.Module)
			assert.Equal(t, "/", f.Device)
			assert.Contains(t, f.Detail, "GiB free")
		})
	}
}

func TestEvaluateMount_SummaryFitsLabel(t *testing.T) {
	f := evaluateMount(config.MountThreshold{Path: "/", Warn: 80, Critical: 90}, 100*gib, 5*gib)
	assert.Equal(t, "/ at 95%", f.Summary)
}

func TestDiskModule_NoMountsConfiguredIsReminder(t *testing.T) {
	m := NewDiskModule(nil)

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.Warning, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "no mountpoints configured")
	assert.Contains(t, findings[0].Detail, "disk.json")
}

func TestDiskModule_UnreadableMountIsWarning(t *testing.T) {
	m := NewDiskModule([]config.MountThreshold{{Path: "/mnt/gone", Warn: 80, Critical: 90}})
	m.statfs = func(path string) (uint64, uint64, error) {
		return 0, 0, os.ErrNotExist
	}

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.Warning, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "not found")
}

func TestDiskModule_ZeroSizeIsWarning(t *testing.T) {
	m := NewDiskModule([]config.MountThreshold{{Path: "/proc", Warn: 80, Critical: 90}})
	m.statfs = func(path string) (uint64, uint64, error) {
		return 0, 0, nil
	}

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.Warning, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "unable to determine size")
}

func TestDiskModule_MixedMounts(t *testing.T) {
	usage := map[string][2]uint64{
		"/":     {100 * gib, 50 * gib},
		"/home": {100 * gib, 4 * gib},
	}
	m := NewDiskModule([]config.MountThreshold{
		{Path: "/", Warn: 80, Critical: 90},
		{Path: "/home", Warn: 80, Critical: 90},
	})
	m.statfs = func(path string) (uint64, uint64, error) {
		u := usage[path]
		return u[0], u[1], nil
	}

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, finding.OK, findings[0].Severity)
	assert.Equal(t, finding.Critical, findings[1].Severity)
}
