package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

func TestClassifySystemdState(t *testing.T) {
	tests := []struct {
		state string
		code  int
		want  finding.Severity
	}{
		{"running", 0, finding.OK},
		{"degraded", 1, finding.Critical},
		{"maintenance", 1, finding.Critical},
		{"failed", 1, finding.Critical},
		{"starting", 1, finding.Warning},
		{"unknown", 0, finding.Warning},
		{"offline", 1, finding.Warning}, // unexpected state with nonzero exit
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifySystemdState(tt.state, tt.code), tt.state)
	}
}

func TestParseFailedUnits(t *testing.T) {
	out := `foo.service loaded failed failed Foo daemon
bar.service loaded failed failed Bar daemon
`
	assert.Equal(t, []string{"foo.service", "bar.service"}, parseFailedUnits(out))
	assert.Empty(t, parseFailedUnits("  \n"))
}

func TestSystemdModule_Healthy(t *testing.T) {
	m := NewSystemdModule()
	m.run = script{
		"systemctl is-system-running":                    {stdout: "running\n"},
		"systemctl --user is-system-running":             {stdout: "running\n"},
		"systemctl --failed --no-legend --plain":         {stdout: ""},
		"systemctl --user --failed --no-legend --plain":  {stdout: ""},
	}.run

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestSystemdModule_DegradedWithFailedUnits(t *testing.T) {
	m := NewSystemdModule()
	m.run = script{
		"systemctl is-system-running":                    {code: 1, stdout: "degraded\n"},
		"systemctl --user is-system-running":             {stdout: "running\n"},
		"systemctl --failed --no-legend --plain":         {stdout: "nginx.service loaded failed failed Web server\n"},
		"systemctl --user --failed --no-legend --plain":  {stdout: ""},
	}.run

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, finding.Critical, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "degraded")

	assert.Equal(t, finding.Critical, findings[1].Severity)
	assert.Contains(t, findings[1].Summary, "nginx.service")
	assert.Contains(t, findings[1].Detail, "failed system unit")
}

func TestSystemdModule_MissingSystemctl(t *testing.T) {
	m := NewSystemdModule()
	m.run = script{}.run

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, finding.Warning, f.Severity)
		assert.Contains(t, f.Detail, "systemctl missing")
	}
}

func TestSystemdModule_FailedListingError(t *testing.T) {
	m := NewSystemdModule()
	m.run = script{
		"systemctl is-system-running":                    {stdout: "running\n"},
		"systemctl --user is-system-running":             {stdout: "running\n"},
		"systemctl --failed --no-legend --plain":         {code: 1, stderr: "Failed to connect to bus"},
		"systemctl --user --failed --no-legend --plain":  {stdout: ""},
	}.run

	findings, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.Warning, findings[0].Severity)
	assert.Contains(t, findings[0].Detail, "Failed to connect to bus")
}
