package checks

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// BtrfsModule checks filesystem integrity on a btrfs root: per-device
// error counters and the result of the last scrub.
type BtrfsModule struct {
	run commandRunner
}

func NewBtrfsModule() *BtrfsModule {
	return &BtrfsModule{run: runCommand}
}

func (m *BtrfsModule) Name() string { return NameBtrfs }

func (m *BtrfsModule) Description() string {
	return "btrfs device error counters and scrub status for /"
}

func (m *BtrfsModule) Check(ctx context.Context) ([]finding.Finding, error) {
	fstype, err := m.detectRootFstype(ctx)
	if err != nil {
		return nil, err
	}
	if fstype != "btrfs" {
		return []finding.Finding{{
			Module:   NameBtrfs,
			Severity: finding.Warning,
			Summary:  "root is not btrfs",
			Detail:   fmt.Sprintf("(root is %q, not btrfs. check your config)", fstype),
		}}, nil
	}

	findings, err := m.deviceStatsFindings(ctx)
	if err != nil {
		return nil, err
	}
	scrub, err := m.scrubFindings(ctx)
	if err != nil {
		return nil, err
	}
	return append(findings, scrub...), nil
}

func (m *BtrfsModule) detectRootFstype(ctx context.Context) (string, error) {
	code, out, _, err := m.run(ctx, "findmnt", "-n", "-o", "FSTYPE", "/")
	if err != nil {
		return "", err
	}
	if code == 0 {
		if fstype := firstLine(out, ""); fstype != "" {
			return fstype, nil
		}
	}
	code, out, _, err = m.run(ctx, "stat", "-f", "-c", "%T", "/")
	if err != nil {
		return "", err
	}
	if code == 0 {
		if fstype := firstLine(out, ""); fstype != "" {
			return fstype, nil
		}
	}
	return "unknown", nil
}

// deviceStatLine matches `btrfs device stats` output such as
// "[/dev/sda1].write_io_errs   0".
var deviceStatLine = regexp.MustCompile(`^\[(.+)\]\.(\S+)\s+(\d+)$`)

func (m *BtrfsModule) deviceStatsFindings(ctx context.Context) ([]finding.Finding, error) {
	code, out, errOut, err := m.run(ctx, "btrfs", "device", "stats", "/")
	if err != nil {
		return nil, err
	}
	if code == codeNotFound {
		return []finding.Finding{missingBtrfsProgs()}, nil
	}
	if code != 0 {
		return []finding.Finding{{
			Module:   NameBtrfs,
			Severity: finding.Warning,
			Summary:  "device stats failed",
			Detail:   commandErrorDetail("btrfs device stats", code, out, errOut),
		}}, nil
	}

	var findings []finding.Finding
	for _, ln := range nonEmptyLines(out) {
		mm := deviceStatLine.FindStringSubmatch(ln)
		if mm == nil {
			findings = append(findings, finding.Finding{
				Module:   NameBtrfs,
				Severity: finding.Warning,
				Summary:  "unparseable device stats line",
				Detail:   "couldn't parse this line: " + ln,
			})
			continue
		}
		val, _ := strconv.Atoi(mm[3])
		if val != 0 {
			findings = append(findings, finding.Finding{
				Module:   NameBtrfs,
				Severity: finding.Critical,
				Summary:  fmt.Sprintf("%s: %d", mm[2], val),
				Detail:   ln,
				Device:   mm[1],
			})
		}
	}
	return findings, nil
}

// scrubErrorCounter matches error counters in `btrfs scrub status -R`
// output, e.g. "read_errors: 0".
var scrubErrorCounter = regexp.MustCompile(`(\w+_errors?):\s*(\d+)`)

func (m *BtrfsModule) scrubFindings(ctx context.Context) ([]finding.Finding, error) {
	code, out, errOut, err := m.run(ctx, "btrfs", "scrub", "status", "-R", "/")
	if err != nil {
		return nil, err
	}
	if code == codeNotFound {
		return []finding.Finding{missingBtrfsProgs()}, nil
	}
	if code != 0 {
		return []finding.Finding{{
			Module:   NameBtrfs,
			Severity: finding.Warning,
			Summary:  "scrub status failed",
			Detail:   commandErrorDetail("btrfs scrub status", code, out, errOut),
		}}, nil
	}

	counters := parseScrubCounters(out)
	if len(counters) == 0 {
		return []finding.Finding{{
			Module:   NameBtrfs,
			Severity: finding.Warning,
			Summary:  "unparseable scrub output",
			Detail:   "unable to parse scrub output",
		}}, nil
	}

	var findings []finding.Finding
	types := make([]string, 0, len(counters))
	for t := range counters {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		if counters[t] > 0 {
			findings = append(findings, finding.Finding{
				Module:   NameBtrfs,
				Severity: finding.Critical,
				Summary:  fmt.Sprintf("scrub %s: %d", t, counters[t]),
				Detail:   fmt.Sprintf("scrub %s: %d", t, counters[t]),
			})
		}
	}
	return findings, nil
}

// parseScrubCounters extracts per-type error counts from scrub output.
func parseScrubCounters(out string) map[string]int {
	counters := make(map[string]int)
	for _, ln := range nonEmptyLines(out) {
		if mm := scrubErrorCounter.FindStringSubmatch(ln); mm != nil {
			n, _ := strconv.Atoi(mm[2])
			counters[mm[1]] = n
		}
	}
	return counters
}

func missingBtrfsProgs() finding.Finding {
	return finding.Finding{
		Module:   NameBtrfs,
		Severity: finding.Warning,
		Summary:  "btrfs-progs missing",
		Detail:   "btrfs-progs missing",
	}
}
