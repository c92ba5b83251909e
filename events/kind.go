/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package events

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Kind identifies a phase of the create-project flow.
type Kind string

const (
	// NotStarted is the zero Kind. It precedes every phase, so a projectile
	// that starts from NotStarted runs all of them.
	NotStarted Kind = ""
	// GitHubCreate is the repository creation phase.
	GitHubCreate Kind = "GITHUB_CREATE"
	// GitHubPushed is the push phase.
	GitHubPushed Kind = "GITHUB_PUSHED"
	// GitHubWebhook is the webhook registration phase.
	GitHubWebhook Kind = "GITHUB_WEBHOOK"
)

const notStartedName = "NOT_STARTED"

// ordered lists every Kind in execution order. It is the only source of
// truth for comparisons between kinds.
var ordered = []Kind{NotStarted, GitHubCreate, GitHubPushed, GitHubWebhook}

// Kinds returns the phases of the create-project flow in execution order,
// excluding NotStarted.
func Kinds() []Kind {
	return slices.Clone(ordered[1:])
}

// ParseKind parses the textual form of a Kind. The empty string and
// "NOT_STARTED" both parse to NotStarted. Parsing is case-insensitive.
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == notStartedName {
		return NotStarted, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return NotStarted, fmt.Errorf("unknown status event kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return slices.Contains(ordered, k)
}

func (k Kind) String() string {
	if k == NotStarted {
		return notStartedName
	}
	return string(k)
}

// Compare returns -1, 0 or +1 depending on whether a executes before, at the
// same point as, or after b. Unknown kinds sort before NotStarted.
func Compare(a, b Kind) int {
	return cmp.Compare(slices.Index(ordered, a), slices.Index(ordered, b))
}

// Before reports whether k executes before other.
func (k Kind) Before(other Kind) bool {
	return Compare(k, other) < 0
}

// After reports whether k executes after other.
func (k Kind) After(other Kind) bool {
	return Compare(k, other) > 0
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown status event kind %q", string(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It is also what lets
// envconfig decode a Kind from the environment.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
