package checks

import (
	"context"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// JournalModule checks the kernel/system log for errors since boot.
type JournalModule struct {
	run commandRunner
}

func NewJournalModule() *JournalModule {
	return &JournalModule{run: runCommand}
}

func (m *JournalModule) Name() string { return NameJournal }

func (m *JournalModule) Description() string {
	return "journal errors (err..emerg) since boot"
}

func (m *JournalModule) Check(ctx context.Context) ([]finding.Finding, error) {
	code, out, errOut, err := m.run(ctx, "journalctl",
		"-b", "-p", "err..emerg", "--no-pager", "-o", "short-iso")
	if err != nil {
		return nil, err
	}
	if code == codeNotFound {
		return []finding.Finding{{
			Module:   NameJournal,
			Severity: finding.Warning,
			Summary:  "journalctl missing",
			Detail:   "journalctl missing",
		}}, nil
	}

	lines := nonEmptyLines(out)
	if code != 0 && len(lines) == 0 {
		note := firstLine(errOut, "cannot read journal")
		return []finding.Finding{{
			Module:   NameJournal,
			Severity: finding.Warning,
			Summary:  "journal not readable",
			Detail: "Journal errors (err..emerg): (not readable)\n  " + note +
				"\nTip: add user to systemd-journal group, then re-login.",
		}}, nil
	}

	return journalFindings(lines), nil
}

// journalFindings turns journal error lines into one finding per line,
// most recent first, so ignore rules can suppress entries individually
// and the aggregator's tooltip cap keeps the newest entries. Capping
// must not happen here: it runs only after suppression, otherwise an
// ignored line could displace a real one.
func journalFindings(lines []string) []finding.Finding {
	var findings []finding.Finding
	for i := len(lines) - 1; i >= 0; i-- {
		findings = append(findings, finding.Finding{
			Module:   NameJournal,
			Severity: finding.Critical,
			Summary:  "journal error",
			Detail:   lines[i],
		})
	}
	return findings
}
