// Package aggregate reduces the filtered findings of all check modules
// into a single severity plus display text for the status bar.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/waybarutils/waybar-system-health/internal/finding"
	"github.com/waybarutils/waybar-system-health/internal/ignore"
)

// OKGlyph is the all-clear label.
const OKGlyph = "✓"

// Status is one evaluation's reduced result.
type Status struct {
	Severity finding.Severity
	// Text is the compact status-bar label.
	Text string
	// Tooltip lists every surviving finding, grouped by module.
	Tooltip string
}

// Class returns the CSS class name for consumer-side styling.
func (s Status) Class() string {
	return string(s.Severity)
}

// DetailCap returns the per-module limit on tooltip detail entries;
// 0 means unlimited. nil disables capping entirely.
type DetailCap func(module string) int

// Aggregate filters findings through the rule set and reduces the
// survivors. Severity is the maximum over surviving findings; OK findings
// are placeholders and never surface in the label or tooltip. A module
// whose every finding was suppressed leaves no trace in the output.
// detailCap bounds each module's tooltip entries; it applies strictly
// after suppression, so a suppressed finding can never occupy a slot or
// hide behind the overflow count, and collapsed entries still count
// toward severity.
func Aggregate(findings []finding.Finding, rules *ignore.RuleSet, detailCap DetailCap) Status {
	var problems []finding.Finding
	for _, f := range rules.Filter(findings) {
		if f.Severity != finding.OK {
			problems = append(problems, f)
		}
	}

	if len(problems) == 0 {
		return Status{Severity: finding.OK, Text: OKGlyph}
	}

	groups := groupByModule(problems)
	severity := finding.WorstOf(problems)

	return Status{
		Severity: severity,
		Text:     label(groups, severity),
		Tooltip:  tooltip(groups, detailCap),
	}
}

// moduleGroup collects one module's surviving problems.
type moduleGroup struct {
	Module   string
	Findings []finding.Finding
	Worst    finding.Severity
}

// groupByModule partitions findings per module and orders the groups by
// highest contained severity, then module name, so output is
// deterministic run to run.
func groupByModule(findings []finding.Finding) []moduleGroup {
	index := make(map[string]int)
	var groups []moduleGroup
	for _, f := range findings {
		i, ok := index[f.Module]
		if !ok {
			i = len(groups)
			index[f.Module] = i
			groups = append(groups, moduleGroup{Module: f.Module})
		}
		groups[i].Findings = append(groups[i].Findings, f)
		groups[i].Worst = finding.Worst(groups[i].Worst, f.Severity)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].Worst != groups[b].Worst {
			return groups[a].Worst.Rank() > groups[b].Worst.Rank()
		}
		return groups[a].Module < groups[b].Module
	})
	for i := range groups {
		fs := groups[i].Findings
		sort.SliceStable(fs, func(a, b int) bool {
			return fs[a].Severity.Rank() > fs[b].Severity.Rank()
		})
	}
	return groups
}

// label renders the compact non-OK token: how many modules contribute
// problems at the top severity, and which severity that is.
func label(groups []moduleGroup, severity finding.Severity) string {
	n := 0
	for _, g := range groups {
		if g.Worst == severity {
			n++
		}
	}
	word := string(severity)
	if severity == finding.Warning && n != 1 {
		word = "warnings"
	}
	return fmt.Sprintf("⚠ %d %s", n, word)
}

// tooltip renders the grouped findings: the module name as a heading,
// each finding's detail indented beneath it, blank line between modules.
// A module exceeding its detail cap shows its first entries (the group
// is already sorted severity-first) and collapses the rest into an
// overflow line carrying the surviving total.
func tooltip(groups []moduleGroup, detailCap DetailCap) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(g.Module + ":")

		shown := g.Findings
		more := 0
		if detailCap != nil {
			if limit := detailCap(g.Module); limit > 0 && len(shown) > limit {
				more = len(shown) - limit
				shown = shown[:limit]
			}
		}
		for _, f := range shown {
			for _, ln := range strings.Split(f.Detail, "\n") {
				b.WriteString("\n  " + ln)
			}
		}
		if more > 0 {
			fmt.Fprintf(&b, "\n  … (+%d more, %d total)", more, len(g.Findings))
		}
	}
	return b.String()
}
