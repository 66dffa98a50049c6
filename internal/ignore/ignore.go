// Package ignore compiles a comma-separated list of regular expressions
// and decides whether a directory basename is ignored.
package ignore

import (
	"fmt"
	"regexp"
	"strings"
)

// Set is an ordered, immutable collection of compiled ignore patterns.
// The zero value is a valid empty set that never matches.
type Set struct {
	patterns []*regexp.Regexp
}

// Build parses a comma-separated pattern string, trims and discards empty
// pieces, and compiles each remaining piece as a regular expression. Any
// compile failure aborts construction with the offending pattern quoted.
func Build(csv string) (*Set, error) {
	var patterns []*regexp.Regexp
	for _, raw := range strings.Split(csv, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &Set{patterns: patterns}, nil
}

// Matches reports whether basename matches any pattern in the set. An empty
// set always returns false without iterating. Patterns are not anchored
// implicitly — they may match anywhere in the basename.
func (s *Set) Matches(basename string) bool {
	if s == nil || len(s.patterns) == 0 {
		return false
	}
	for _, re := range s.patterns {
		if re.MatchString(basename) {
			return true
		}
	}
	return false
}
