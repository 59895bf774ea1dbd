// Package exceptions filters known-acceptable findings out of the report.
// The exception database is a JSON array of shell-style glob patterns
// matched against device aliases and module names.
package exceptions

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultPath is the default exception database location
const DefaultPath = "device_driver_exceptions.json"

// Matcher reports whether a device alias or module name is covered by a
// configured exception. The zero value never matches.
type Matcher struct {
	re *regexp.Regexp
}

// Match reports whether name matches any exception pattern.
func (m Matcher) Match(name string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(name)
}

// Load reads the exception database and compiles it.
func Load(path string) (Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Matcher{}, fmt.Errorf("read exception database: %w", err)
	}

	var patterns []string
	if err := json.Unmarshal(data, &patterns); err != nil {
		return Matcher{}, fmt.Errorf("parse exception database %s: %w", path, err)
	}
	return Compile(patterns)
}

// Compile turns the glob patterns into a single matcher. An empty pattern
// list yields a matcher that never matches.
func Compile(patterns []string) (Matcher, error) {
	if len(patterns) == 0 {
		return Matcher{}, nil
	}

	alts := make([]string, len(patterns))
	for i, p := range patterns {
		alts[i] = "(?:" + translate(p) + ")"
	}
	re, err := regexp.Compile(`\A(?s)(?:` + strings.Join(alts, "|") + `)\z`)
	if err != nil {
		return Matcher{}, fmt.Errorf("compile exception patterns: %w", err)
	}
	return Matcher{re: re}, nil
}

// translate converts one glob pattern to regexp syntax. The pattern
// language is *, ? and [seq] / [!seq]; an unterminated class matches a
// literal '['.
func translate(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(pattern) && (pattern[j] == '!' || pattern[j] == '^') {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				b.WriteString(`\[`)
				continue
			}
			seq := strings.ReplaceAll(pattern[i+1:j], `\`, `\\`)
			if strings.HasPrefix(seq, "!") {
				seq = "^" + seq[1:]
			}
			b.WriteString("[" + seq + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
