/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package steps

import (
	"testing"

	"chainguard.dev/launcher/events"
	"github.com/google/uuid"
)

func TestNewCreateProjectile(t *testing.T) {
	p, err := NewCreateProjectile("/tmp/demo", events.Discard,
		WithProjectName("demo"),
		WithGitOrganization("acme"))
	if err != nil {
		t.Fatalf("NewCreateProjectile: %v", err)
	}

	if _, err := uuid.Parse(p.ID()); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", p.ID(), err)
	}
	if got := p.RepositoryName(); got != "demo" {
		t.Errorf("RepositoryName() = %q, want fallback to project name", got)
	}
	if got := p.StartOfStep(); got != events.NotStarted {
		t.Errorf("StartOfStep() = %v, want NotStarted", got)
	}

	p, err = NewCreateProjectile("/tmp/demo", events.Discard,
		WithID("req-1"),
		WithProjectName("demo"),
		WithGitRepository("demo-repo", "A demo"),
		WithStartOfStep(events.GitHubPushed))
	if err != nil {
		t.Fatalf("NewCreateProjectile: %v", err)
	}
	if p.ID() != "req-1" || p.RepositoryName() != "demo-repo" || p.Description() != "A demo" {
		t.Errorf("unexpected projectile: id=%q name=%q description=%q", p.ID(), p.RepositoryName(), p.Description())
	}
}

func TestCreateProjectileValidate(t *testing.T) {
	tests := []struct {
		name     string
		location string
		sink     events.Sink
		opts     []ProjectileOption
	}{{
		name: "missing location",
		sink: events.Discard,
		opts: []ProjectileOption{WithProjectName("demo")},
	}, {
		name:     "missing names",
		location: "/tmp/demo",
		sink:     events.Discard,
	}, {
		name:     "missing sink",
		location: "/tmp/demo",
		opts:     []ProjectileOption{WithProjectName("demo")},
	}, {
		name:     "unknown start of step",
		location: "/tmp/demo",
		sink:     events.Discard,
		opts:     []ProjectileOption{WithProjectName("demo"), WithStartOfStep("GITHUB_FORKED")},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCreateProjectile(tt.location, tt.sink, tt.opts...); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
