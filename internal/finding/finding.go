package finding

// Severity is an ordered health level. The string values double as the
// CSS class names the status-bar consumer styles on.
type Severity string

const (
	OK       Severity = "ok"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

var severityRank = map[Severity]int{
	OK:       0,
	Warning:  1,
	Critical: 2,
}

// Rank returns the position of s in the OK < Warning < Critical order.
// Unknown severities rank lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Worst returns the higher severity of the two.
func Worst(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Finding is one reported problem or observation from a single subsystem
// check. Findings are created fresh on every run and never mutated.
type Finding struct {
	// Module is the identifier of the originating check module
	// (disk, btrfs, systemd, journal, smart).
	Module string

	Severity Severity

	// Summary is a short label-sized description.
	Summary string

	// Detail is the longer tooltip text; may span multiple lines.
	Detail string

	// Device optionally names a device or path this finding is about,
	// so ignore rules can suppress it by exact identifier.
	Device string
}

// WorstOf reduces a set of findings to its highest severity, OK when the
// set is empty.
func WorstOf(findings []Finding) Severity {
	worst := OK
	for _, f := range findings {
		worst = Worst(worst, f.Severity)
	}
	return worst
}
