/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package substitute replaces named placeholders in text.
//
// Two placeholder forms are recognized:
//
//	${name}           ${name:-fallback}
//	{{ name }}
//
// "$${name}" escapes a placeholder and renders as the literal "${name}".
// Placeholders whose name is not in the mapping, and that carry no fallback,
// are left untouched.
package substitute

import (
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\$(\$)?\{([A-Za-z_][A-Za-z0-9_.]*)(?::-([^}]*))?\}|\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)

// Replace returns s with every known placeholder replaced by its value.
func Replace(s string, values map[string]string) string {
	matches := placeholder.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		last = m[1]

		switch {
		case m[2] >= 0:
			// Escaped: drop the leading '$'.
			b.WriteString(s[m[0]+1 : m[1]])
		case m[4] >= 0:
			name := s[m[4]:m[5]]
			if v, ok := values[name]; ok {
				b.WriteString(v)
			} else if m[6] >= 0 {
				b.WriteString(s[m[6]:m[7]])
			} else {
				b.WriteString(s[m[0]:m[1]])
			}
		default:
			name := s[m[8]:m[9]]
			if v, ok := values[name]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(s[m[0]:m[1]])
			}
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

// Contains reports whether s holds a placeholder for name.
func Contains(s, name string) bool {
	for _, m := range placeholder.FindAllStringSubmatch(s, -1) {
		if m[1] == "" && (m[2] == name || m[4] == name) {
			return true
		}
	}
	return false
}
