/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitservicetest provides an in-memory gitservice.Service for tests.
package gitservicetest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"chainguard.dev/launcher/gitservice"
)

// Method names recorded by Fake.
const (
	MethodGetRepository                  = "GetRepository"
	MethodGetRepositoryInOrganization    = "GetRepositoryInOrganization"
	MethodCreateRepository               = "CreateRepository"
	MethodCreateRepositoryInOrganization = "CreateRepositoryInOrganization"
	MethodClone                          = "Clone"
	MethodPush                           = "Push"
	MethodCreateHook                     = "CreateHook"
	MethodLoggedUser                     = "LoggedUser"
)

// Call is one recorded invocation of a Fake method.
type Call struct {
	Method string
	// Args holds the string arguments of the call in order, with repositories
	// given by full name.
	Args []string
}

// Fake is an in-memory gitservice.Service. Repositories are keyed by full
// name and hooks by repository full name. It is safe for concurrent use.
type Fake struct {
	// User is the authenticated user. Defaults to "octocat".
	User gitservice.User

	// CloneFunc, when set, replaces the default Clone behavior of returning
	// dir untouched.
	CloneFunc func(ctx context.Context, repo *gitservice.Repository, dir string) (string, error)

	mu     sync.Mutex
	repos  map[string]*gitservice.Repository
	hooks  map[string][]gitservice.Hook
	pushed map[string][]string
	calls  []Call
	fail   map[string]error
	nextID int64
}

var _ gitservice.Service = (*Fake)(nil)

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		User:   gitservice.User{Login: "octocat"},
		repos:  map[string]*gitservice.Repository{},
		hooks:  map[string][]gitservice.Hook{},
		pushed: map[string][]string{},
		fail:   map[string]error{},
	}
}

// AddRepository registers an existing repository owned by owner.
func (f *Fake) AddRepository(owner, name string) *gitservice.Repository {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(owner, name, "")
}

// AddHook registers an existing hook on the repository fullName.
func (f *Fake) AddHook(fullName, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.hooks[fullName] = append(f.hooks[fullName], gitservice.Hook{ID: f.nextID, URL: url, Events: []string{"push"}})
}

// FailOn makes every following call to method return err. A nil err clears
// the failure.
func (f *Fake) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, method)
		return
	}
	f.fail[method] = err
}

// Calls returns the recorded calls in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Methods returns the names of the recorded calls in order.
func (f *Fake) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	methods := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		methods = append(methods, c.Method)
	}
	return methods
}

// Repository returns the repository with the given full name, if any.
func (f *Fake) Repository(fullName string) (*gitservice.Repository, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.repos[fullName]
	if !ok {
		return nil, false
	}
	cp := *r
	return &cp, true
}

// Hooks returns the hooks registered on the repository fullName.
func (f *Fake) Hooks(fullName string) []gitservice.Hook {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.hooks[fullName])
}

// Pushes returns the directories pushed to the repository fullName.
func (f *Fake) Pushes(fullName string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.pushed[fullName])
}

// record logs the call and returns the injected failure for method, if any.
// Callers hold f.mu.
func (f *Fake) record(method string, args ...string) error {
	f.calls = append(f.calls, Call{Method: method, Args: args})
	return f.fail[method]
}

func (f *Fake) put(owner, name, description string) *gitservice.Repository {
	full := gitservice.FullName(owner, name)
	r := &gitservice.Repository{
		Owner:       owner,
		Name:        name,
		FullName:    full,
		Description: description,
		HomepageURL: "https://github.com/" + full,
		CloneURL:    "https://github.com/" + full + ".git",
	}
	f.repos[full] = r
	cp := *r
	return &cp
}

func (f *Fake) lookup(owner, name string) (*gitservice.Repository, error) {
	full := gitservice.FullName(owner, name)
	r, ok := f.repos[full]
	if !ok {
		return nil, fmt.Errorf("%w: %s", gitservice.ErrNoSuchRepository, full)
	}
	cp := *r
	return &cp, nil
}

// GetRepository implements gitservice.Service.
func (f *Fake) GetRepository(_ context.Context, name string) (*gitservice.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodGetRepository, name); err != nil {
		return nil, err
	}
	owner, repo, ok := gitservice.SplitFullName(name)
	if !ok {
		owner = f.User.Login
	}
	return f.lookup(owner, repo)
}

// GetRepositoryInOrganization implements gitservice.Service.
func (f *Fake) GetRepositoryInOrganization(_ context.Context, org gitservice.Organization, name string) (*gitservice.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodGetRepositoryInOrganization, org.Name, name); err != nil {
		return nil, err
	}
	return f.lookup(org.Name, name)
}

// CreateRepository implements gitservice.Service.
func (f *Fake) CreateRepository(_ context.Context, name, description string) (*gitservice.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodCreateRepository, name, description); err != nil {
		return nil, err
	}
	return f.create(f.User.Login, name, description)
}

// CreateRepositoryInOrganization implements gitservice.Service.
func (f *Fake) CreateRepositoryInOrganization(_ context.Context, org gitservice.Organization, name, description string) (*gitservice.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodCreateRepositoryInOrganization, org.Name, name, description); err != nil {
		return nil, err
	}
	return f.create(org.Name, name, description)
}

func (f *Fake) create(owner, name, description string) (*gitservice.Repository, error) {
	if _, ok := f.repos[gitservice.FullName(owner, name)]; ok {
		return nil, fmt.Errorf("repository %s already exists", gitservice.FullName(owner, name))
	}
	return f.put(owner, name, description), nil
}

// Clone implements gitservice.Service.
func (f *Fake) Clone(ctx context.Context, repo *gitservice.Repository, dir string) (string, error) {
	f.mu.Lock()
	err := f.record(MethodClone, repo.FullName, dir)
	cloneFn := f.CloneFunc
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	if cloneFn != nil {
		return cloneFn(ctx, repo, dir)
	}
	return dir, nil
}

// Push implements gitservice.Service.
func (f *Fake) Push(_ context.Context, repo *gitservice.Repository, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodPush, repo.FullName, dir); err != nil {
		return err
	}
	f.pushed[repo.FullName] = append(f.pushed[repo.FullName], dir)
	return nil
}

// CreateHook implements gitservice.Service.
func (f *Fake) CreateHook(_ context.Context, repo *gitservice.Repository, secret, url string) (*gitservice.Hook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodCreateHook, repo.FullName, secret, url); err != nil {
		return nil, err
	}
	if slices.ContainsFunc(f.hooks[repo.FullName], func(h gitservice.Hook) bool { return h.URL == url }) {
		return nil, fmt.Errorf("%w: %s on %s", gitservice.ErrDuplicateHook, url, repo.FullName)
	}
	f.nextID++
	h := gitservice.Hook{ID: f.nextID, URL: url, Events: []string{"push"}}
	f.hooks[repo.FullName] = append(f.hooks[repo.FullName], h)
	return &h, nil
}

// LoggedUser implements gitservice.Service.
func (f *Fake) LoggedUser(context.Context) (*gitservice.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodLoggedUser); err != nil {
		return nil, err
	}
	u := f.User
	return &u, nil
}
