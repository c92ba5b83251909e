/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package steps

import (
	"fmt"

	"chainguard.dev/launcher/events"
	"chainguard.dev/launcher/gitservice"
)

// RecoveredKind classifies a condition a phase logged and continued past.
type RecoveredKind string

const (
	// RecoveredReadmeTemplate is an I/O failure while templating the README.
	// The push still happens.
	RecoveredReadmeTemplate RecoveredKind = "readme_template"
	// RecoveredDuplicateHook is a webhook that was already registered.
	RecoveredDuplicateHook RecoveredKind = "duplicate_hook"
)

// Recovered is a condition a phase logged and continued past.
type Recovered struct {
	Kind RecoveredKind
	// Target is the file or webhook URL concerned.
	Target string
	Err    error
}

func (r Recovered) String() string {
	return fmt.Sprintf("%s %s: %v", r.Kind, r.Target, r.Err)
}

// Outcome describes how a phase completed.
type Outcome struct {
	Step events.Kind
	// Skipped is set when the phase's action was bypassed because the
	// projectile resumed past it. Its event is emitted regardless.
	Skipped   bool
	Recovered []Recovered
}

// Report is the result of Run.
type Report struct {
	Repository *gitservice.Repository
	// Outcomes holds one entry per phase reached, in execution order.
	Outcomes []Outcome
}

// Recovered returns the recovered conditions of every phase in order.
func (r *Report) Recovered() []Recovered {
	var out []Recovered
	for _, o := range r.Outcomes {
		out = append(out, o.Recovered...)
	}
	return out
}

// Outcome returns the outcome of step, if it was reached.
func (r *Report) Outcome(step events.Kind) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Step == step {
			return o, true
		}
	}
	return Outcome{}, false
}
