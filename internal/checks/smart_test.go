package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

func TestParseScanOutput(t *testing.T) {
	out := `
/dev/sda -d sat # /dev/sda [SAT], ATA device
/dev/nvme0 -d nvme # /dev/nvme0, NVMe device
# comment-only line
`
	devices := parseScanOutput(out)
	require.Len(t, devices, 2)
	assert.Equal(t, smartDevice{Path: "/dev/sda", Type: "sat"}, devices[0])
	assert.Equal(t, smartDevice{Path: "/dev/nvme0", Type: "nvme"}, devices[1])
}

func TestParseScanOutput_Empty(t *testing.T) {
	assert.Empty(t, parseScanOutput(""))
	assert.Empty(t, parseScanOutput("# nothing here\n"))
}

func TestDecodeSmartctlExit(t *testing.T) {
	assert.Empty(t, decodeSmartctlExit(0))

	set := decodeSmartctlExit(8 | 2)
	require.Len(t, set, 2)
	assert.Equal(t, finding.Warning, set[0].Severity) // bit 2
	assert.Equal(t, finding.Critical, set[1].Severity) // bit 8
}

func TestClassifyHealthLine(t *testing.T) {
	tests := []struct {
		line string
		want finding.Severity
	}{
		{"SMART overall-health self-assessment test result: PASSED", finding.OK},
		{"SMART overall-health self-assessment test result: FAILED!", finding.Critical},
		{"SMART Health Status: OK", finding.OK},
		{"SMART support is: Unknown", finding.Warning},
		{"SMART Health Status: something odd", finding.Warning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyHealthLine(tt.line), tt.line)
	}
}

func TestSmartModule_MissingSmartctl(t *testing.T) {
	m := NewSmartModule()
	m.run = script{}.run // every command is "not found"

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, NameSmart, findings[0].Module)
	assert.Equal(t, finding.Warning, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "smartctl command not found")
	assert.Contains(t, findings[0].Detail, "smartmontools")
}

func TestSmartModule_NoDevices(t *testing.T) {
	m := NewSmartModule()
	m.run = script{
		"sudo smartctl --scan-open": {code: 0, stdout: "", stderr: "sudo: a password is required"},
	}.run

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.Warning, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "no devices detected")
	assert.Contains(t, findings[0].Detail, "sudo")
}

func TestSmartModule_HealthyAndFailingDevices(t *testing.T) {
	m := NewSmartModule()
	m.run = script{
		"sudo smartctl --scan-open": {stdout: "/dev/sda -d sat\n/dev/sdb -d sat\n"},
		"sudo smartctl -a /dev/sda": {stdout: "SMART overall-health self-assessment test result: PASSED\n"},
		"sudo smartctl -a /dev/sdb": {
			code:   8,
			stdout: "SMART overall-health self-assessment test result: FAILED!\n",
		},
	}.run

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, finding.OK, findings[0].Severity)
	assert.Equal(t, "/dev/sda", findings[0].Device)

	assert.Equal(t, finding.Critical, findings[1].Severity)
	assert.Equal(t, "/dev/sdb", findings[1].Device)
	assert.Contains(t, findings[1].Detail, "FAILED")
	assert.Contains(t, findings[1].Detail, "self-assessment reported failure")
}
