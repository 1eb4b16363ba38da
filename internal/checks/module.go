// Package checks implements the subsystem health checks. Each check is a
// Module producing zero or more findings, independent of all others; the
// runner and aggregator only ever see the Module interface.
package checks

import (
	"context"

	"github.com/waybarutils/waybar-system-health/internal/config"
	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// Module is a single subsystem health check.
type Module interface {
	// Name returns the module identifier used in findings and ignore rules.
	Name() string

	// Description returns a one-line summary for the modules listing.
	Description() string

	// Check runs the check once. It returns findings describing the
	// subsystem's state, or an error when the check could not run at all;
	// the runner turns such errors into a WARNING finding. Check must
	// honor ctx cancellation and leave no subprocess behind.
	Check(ctx context.Context) ([]finding.Finding, error)
}

// Known module names, in canonical execution order.
const (
	NameDisk    = "disk"
	NameBtrfs   = "btrfs"
	NameSystemd = "systemd"
	NameJournal = "journal"
	NameSmart   = "smart"
)

// Names lists every known module identifier; ignore-rule loading uses it
// to validate the module side of each rule.
func Names() []string {
	return []string{NameDisk, NameBtrfs, NameSystemd, NameJournal, NameSmart}
}

// All constructs every check module with its configuration.
func All(diskThresholds []config.MountThreshold) []Module {
	return []Module{
		NewDiskModule(diskThresholds),
		NewBtrfsModule(),
		NewSystemdModule(),
		NewJournalModule(),
		NewSmartModule(),
	}
}
