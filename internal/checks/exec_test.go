package checks

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// cmdResult is one scripted command outcome.
type cmdResult struct {
	code   int
	stdout string
	stderr string
}

// script is a commandRunner backed by canned results, keyed by the full
// command line. Unknown commands behave as missing binaries.
type script map[string]cmdResult

func (s script) run(ctx context.Context, name string, args ...string) (int, string, string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r, ok := s[key]
	if !ok {
		return codeNotFound, "", "command not found: " + name, nil
	}
	return r.code, r.stdout, r.stderr, nil
}

func TestCommandErrorDetail(t *testing.T) {
	detail := commandErrorDetail("systemctl --failed", 1, "some stdout", "denied\nsecond line")

	assert.Contains(t, detail, "systemctl --failed failed with code 1")
	assert.Contains(t, detail, "stderr:\n  denied\n  second line")
	assert.Contains(t, detail, "stdout:\n  some stdout")
}

func TestCommandErrorDetail_NoOutput(t *testing.T) {
	detail := commandErrorDetail("btrfs device stats", 2, "", "  \n")
	assert.Equal(t, "btrfs device stats failed with code 2", detail)
}

func TestNonEmptyLinesAndFirstLine(t *testing.T) {
	lines := nonEmptyLines("  a  \n\n b\n   \n")
	assert.Equal(t, []string{"a", "b"}, lines)

	assert.Equal(t, "a", firstLine("  a  \nb", "fallback"))
	assert.Equal(t, "fallback", firstLine("  \n", "fallback"))
}
