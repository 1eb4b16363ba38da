package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waybarutils/waybar-system-health/internal/aggregate"
	"github.com/waybarutils/waybar-system-health/internal/finding"
)

func TestExportWaybar_OK(t *testing.T) {
	out, err := ExportWaybar(aggregate.Status{Severity: finding.OK, Text: aggregate.OKGlyph})
	require.NoError(t, err)

	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, aggregate.OKGlyph, payload.Text)
	assert.Equal(t, "ok", payload.Class)
	assert.Empty(t, payload.Tooltip)
}

func TestExportWaybar_Critical(t *testing.T) {
	st := aggregate.Status{
		Severity: finding.Critical,
		Text:     "⚠ 1 critical",
		Tooltip:  "disk:\n  [✗] /: 95.0% used",
	}
	out, err := ExportWaybar(st)
	require.NoError(t, err)

	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "⚠ 1 critical", payload.Text)
	assert.Equal(t, "critical", payload.Class)
	assert.Contains(t, payload.Tooltip, "95.0%")

	// One record per line, no stray newlines inside.
	assert.NotContains(t, out, "\n")
}

func TestExportText(t *testing.T) {
	st := aggregate.Status{
		Severity: finding.Warning,
		Text:     "⚠ 1 warning",
		Tooltip:  "smart:\n  [!] /dev/sda: SMART status uncertain",
	}
	out := ExportText(st)

	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "⚠ 1 warning")
	assert.Contains(t, out, "/dev/sda")
}
