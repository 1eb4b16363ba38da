// Package report serializes an aggregated status for its consumers: the
// waybar JSON protocol on stdout, or a colored terminal rendering for
// interactive use.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/waybarutils/waybar-system-health/internal/aggregate"
	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// Payload is the status record waybar consumes: one JSON object per
// invocation.
type Payload struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

// ExportWaybar returns the status as a single-line JSON record.
func ExportWaybar(st aggregate.Status) (string, error) {
	data, err := json.Marshal(Payload{
		Text:    st.Text,
		Tooltip: st.Tooltip,
		Class:   st.Class(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var severityColor = map[finding.Severity]*color.Color{
	finding.OK:       color.New(color.FgGreen),
	finding.Warning:  color.New(color.FgYellow),
	finding.Critical: color.New(color.FgRed, color.Bold),
}

// ExportText returns a human-readable rendering with the severity
// colored, for running the check from a terminal.
func ExportText(st aggregate.Status) string {
	c, ok := severityColor[st.Severity]
	if !ok {
		c = color.New()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", c.Sprintf("[%s]", strings.ToUpper(string(st.Severity))), st.Text)
	if st.Tooltip != "" {
		b.WriteString(st.Tooltip + "\n")
	}
	return b.String()
}
