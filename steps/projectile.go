/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package steps

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/launcher/events"
	"github.com/google/uuid"
)

// CreateProjectile describes one project creation request. It is immutable
// once built.
type CreateProjectile struct {
	id              string
	startOfStep     events.Kind
	gitOrganization string
	repositoryName  string
	projectName     string
	description     string
	location        string
	sink            events.Sink
}

// ProjectileOption configures a CreateProjectile.
type ProjectileOption func(*CreateProjectile)

// WithID sets the request id. A random UUID is used otherwise.
func WithID(id string) ProjectileOption {
	return func(p *CreateProjectile) { p.id = id }
}

// WithStartOfStep sets the first phase to run.
func WithStartOfStep(k events.Kind) ProjectileOption {
	return func(p *CreateProjectile) { p.startOfStep = k }
}

// WithGitOrganization places the repository in an organization instead of the
// authenticated user's namespace.
func WithGitOrganization(org string) ProjectileOption {
	return func(p *CreateProjectile) { p.gitOrganization = org }
}

// WithGitRepository sets the repository name and the description used when
// the repository is created.
func WithGitRepository(name, description string) ProjectileOption {
	return func(p *CreateProjectile) {
		p.repositoryName = name
		p.description = description
	}
}

// WithProjectName sets the project name, used as the repository name when
// none is given.
func WithProjectName(name string) ProjectileOption {
	return func(p *CreateProjectile) { p.projectName = name }
}

// NewCreateProjectile builds a request for the project checked out at
// location, reporting progress to sink.
func NewCreateProjectile(location string, sink events.Sink, opts ...ProjectileOption) (*CreateProjectile, error) {
	p := &CreateProjectile{
		location: location,
		sink:     sink,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.id == "" {
		p.id = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports whether the request can be processed.
func (p *CreateProjectile) Validate() error {
	var errs []error
	if p.location == "" {
		errs = append(errs, errors.New("project location is required"))
	}
	if p.RepositoryName() == "" {
		errs = append(errs, errors.New("repository name or project name is required"))
	}
	if p.sink == nil {
		errs = append(errs, errors.New("event consumer is required"))
	}
	if !p.startOfStep.Valid() {
		errs = append(errs, fmt.Errorf("unknown start of step %q", string(p.startOfStep)))
	}
	return errors.Join(errs...)
}

// ID returns the request id.
func (p *CreateProjectile) ID() string { return p.id }

// StartOfStep returns the first phase to run.
func (p *CreateProjectile) StartOfStep() events.Kind { return p.startOfStep }

// GitOrganization returns the target organization, or "" for the
// authenticated user's namespace.
func (p *CreateProjectile) GitOrganization() string { return p.gitOrganization }

// RepositoryName returns the repository name, falling back to the project
// name.
func (p *CreateProjectile) RepositoryName() string {
	if p.repositoryName != "" {
		return p.repositoryName
	}
	return p.projectName
}

// ProjectName returns the project name.
func (p *CreateProjectile) ProjectName() string { return p.projectName }

// Description returns the repository description.
func (p *CreateProjectile) Description() string { return p.description }

// ProjectLocation returns the local working directory of the project.
func (p *CreateProjectile) ProjectLocation() string { return p.location }

// EventConsumer returns the sink status events are delivered to.
func (p *CreateProjectile) EventConsumer() events.Sink { return p.sink }

func (p *CreateProjectile) emit(ctx context.Context, kind events.Kind, data map[string]any) {
	p.sink.Accept(ctx, events.New(p.id, kind, data))
}
