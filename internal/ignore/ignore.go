// Package ignore loads and applies user-supplied suppression rules.
//
// The rule file is line oriented: blank lines and lines starting with '#'
// are skipped, every other line must be 'module:pattern' where module is a
// known check module identifier (or '*' for all modules) and pattern is a
// regular expression searched against a finding's text. A pattern that
// exactly equals a finding's device identifier also matches, so a single
// device can be suppressed by naming it literally, e.g. 'smart:/dev/sda'.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/waybarutils/waybar-system-health/internal/finding"
)

// Wildcard is the module name that makes a rule apply to every module.
const Wildcard = "*"

// Rule suppresses findings of one module (or all modules) whose text
// matches its pattern.
type Rule struct {
	Module  string
	Pattern *regexp.Regexp

	// raw is the pattern text as written, compared verbatim against a
	// finding's device identifier.
	raw string
}

// Matches reports whether the rule suppresses f.
func (r Rule) Matches(f finding.Finding) bool {
	if r.Module != Wildcard && r.Module != f.Module {
		return false
	}
	if r.Pattern.MatchString(f.Summary) || r.Pattern.MatchString(f.Detail) {
		return true
	}
	return f.Device != "" && r.raw == f.Device
}

// RuleSet is an immutable set of suppression rules, safe for concurrent
// read-only use.
type RuleSet struct {
	rules []Rule
}

// Empty returns a rule set that suppresses nothing.
func Empty() *RuleSet {
	return &RuleSet{}
}

// NewRuleSet builds a rule set from already-compiled rules. Tests use this
// to inject rules without touching the filesystem.
func NewRuleSet(rules []Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// MustRule compiles a 'module:pattern' rule or panics; intended for tests
// and fixed built-in rules.
func MustRule(line string) Rule {
	r, err := parseLine(line, nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of rules in the set.
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// Matches reports whether any rule suppresses f.
func (s *RuleSet) Matches(f finding.Finding) bool {
	for _, r := range s.rules {
		if r.Matches(f) {
			return true
		}
	}
	return false
}

// Filter returns the findings not suppressed by any rule, preserving
// order. Suppression is binary: a matched finding is dropped entirely,
// never demoted.
func (s *RuleSet) Filter(findings []finding.Finding) []finding.Finding {
	if len(s.rules) == 0 {
		return findings
	}
	kept := make([]finding.Finding, 0, len(findings))
	for _, f := range findings {
		if !s.Matches(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

// Load reads rules from path. A missing file is not an error and yields an
// empty set; a malformed line is a configuration error naming the line.
// knownModules validates the module side of each rule so a typo fails
// loudly instead of silently never matching.
func Load(path string, knownModules []string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("open ignore file %s: %w", path, err)
	}
	defer f.Close()

	rs, err := Parse(f, knownModules)
	if err != nil {
		return nil, fmt.Errorf("ignore file %s: %w", path, err)
	}
	return rs, nil
}

// Parse reads rules from r. See Load for the error contract.
func Parse(r io.Reader, knownModules []string) (*RuleSet, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseLine(line, knownModules)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return &RuleSet{rules: rules}, nil
}

func parseLine(line string, knownModules []string) (Rule, error) {
	module, pattern, ok := strings.Cut(line, ":")
	module = strings.TrimSpace(module)
	pattern = strings.TrimSpace(pattern)
	if !ok || module == "" || pattern == "" {
		return Rule{}, fmt.Errorf("invalid rule %q, expected 'module:pattern'", line)
	}

	if module != Wildcard && knownModules != nil && !contains(knownModules, module) {
		return Rule{}, fmt.Errorf("unknown module %q, known modules: %s",
			module, strings.Join(knownModules, ", "))
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return Rule{Module: module, Pattern: re, raw: pattern}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
