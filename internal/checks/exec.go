package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// codeNotFound is the shell convention for a missing binary; checks use it
// to tell "tool not installed" apart from "tool reported a problem".
const codeNotFound = 127

// commandRunner runs an external command and returns its exit code and
// captured output. Checks hold one as a field so tests can substitute
// canned output for real subprocesses.
type commandRunner func(ctx context.Context, name string, args ...string) (code int, stdout, stderr string, err error)

// runCommand is the real commandRunner. CommandContext kills the process
// when ctx is done, so a canceled run never leaves helpers behind. The
// returned error is non-nil only for cancellation; ordinary command
// failure is reported through the exit code.
func runCommand(ctx context.Context, name string, args ...string) (int, string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, stdout.String(), stderr.String(), ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return exitErr.ExitCode(), stdout.String(), stderr.String(), nil
		case errors.Is(err, exec.ErrNotFound):
			return codeNotFound, "", fmt.Sprintf("command not found: %s", name), nil
		default:
			return -1, stdout.String(), stderr.String(), fmt.Errorf("run %s: %w", name, err)
		}
	}
	return 0, stdout.String(), stderr.String(), nil
}

// commandErrorDetail formats a failed command's exit code and output as
// tooltip text.
func commandErrorDetail(cmdName string, code int, stdout, stderr string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed with code %d", cmdName, code)
	if s := strings.TrimSpace(stderr); s != "" {
		b.WriteString("\nstderr:")
		for _, ln := range strings.Split(s, "\n") {
			b.WriteString("\n  " + ln)
		}
	}
	if s := strings.TrimSpace(stdout); s != "" {
		b.WriteString("\nstdout:")
		for _, ln := range strings.Split(s, "\n") {
			b.WriteString("\n  " + ln)
		}
	}
	return b.String()
}

// nonEmptyLines splits s into trimmed, non-blank lines.
func nonEmptyLines(s string) []string {
	var lines []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// firstLine returns the first non-blank line of s, or fallback.
func firstLine(s, fallback string) string {
	if lines := nonEmptyLines(s); len(lines) > 0 {
		return lines[0]
	}
	return fallback
}
