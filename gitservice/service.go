/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitservice

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoSuchRepository is returned when a repository lookup finds nothing.
	ErrNoSuchRepository = errors.New("repository not found")

	// ErrDuplicateHook is returned by CreateHook when a hook for the same URL
	// already exists on the repository.
	ErrDuplicateHook = errors.New("hook already exists")

	// ErrIO marks local failures: temp directory creation, clone or
	// filesystem access.
	ErrIO = errors.New("i/o failure")
)

// Organization is a Git hosting organization.
type Organization struct {
	Name string
}

// Repository identifies a remote repository.
type Repository struct {
	Owner       string
	Name        string
	FullName    string
	Description string
	// HomepageURL is the browser URL of the repository.
	HomepageURL string
	// CloneURL is the URL git clones from and pushes to.
	CloneURL string
}

// User is the authenticated user of a Service.
type User struct {
	Login string
	Name  string
	Email string
}

// Hook is a webhook registered on a repository.
type Hook struct {
	ID     int64
	URL    string
	Events []string
}

// Service is a Git hosting service.
type Service interface {
	// GetRepository looks up a repository by "owner/name", or by bare name in
	// the namespace of the authenticated user. It returns an error wrapping
	// ErrNoSuchRepository when the repository does not exist.
	GetRepository(ctx context.Context, name string) (*Repository, error)

	// GetRepositoryInOrganization looks up a repository owned by org.
	GetRepositoryInOrganization(ctx context.Context, org Organization, name string) (*Repository, error)

	// CreateRepository creates a repository owned by the authenticated user.
	CreateRepository(ctx context.Context, name, description string) (*Repository, error)

	// CreateRepositoryInOrganization creates a repository owned by org.
	CreateRepositoryInOrganization(ctx context.Context, org Organization, name, description string) (*Repository, error)

	// Clone clones repo into dir and returns the path of the working tree.
	Clone(ctx context.Context, repo *Repository, dir string) (string, error)

	// Push commits the contents of dir and pushes them to repo.
	Push(ctx context.Context, repo *Repository, dir string) error

	// CreateHook registers a webhook for url on repo. An empty secret
	// registers the hook without one. It returns an error wrapping
	// ErrDuplicateHook when the hook already exists.
	CreateHook(ctx context.Context, repo *Repository, secret, url string) (*Hook, error)

	// LoggedUser returns the authenticated user.
	LoggedUser(ctx context.Context) (*User, error)
}

// FullName joins an optional organization and a repository name the way
// GetRepository expects them.
func FullName(org, name string) string {
	if org == "" {
		return name
	}
	return org + "/" + name
}

// SplitFullName splits "owner/name". ok is false for a bare name.
func SplitFullName(fullName string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(fullName, "/")
	if !ok {
		return "", fullName, false
	}
	return owner, name, true
}
