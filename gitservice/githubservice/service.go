/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubservice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chainguard.dev/launcher/gitservice"
	"chainguard.dev/launcher/internal/retry"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Service is a gitservice.Service backed by GitHub.
type Service struct {
	client      *github.Client
	tokenSource oauth2.TokenSource
	retry       retry.Config
	branch      string
}

var _ gitservice.Service = (*Service)(nil)

// New constructs a Service. Without credentials it can only read public
// repositories.
func New(_ context.Context, opts ...Option) (*Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	hc := &http.Client{Timeout: defaultTimeout}
	if o.httpClient != nil {
		*hc = *o.httpClient
	}

	rt, ts, err := o.transport(hc.Transport)
	if err != nil {
		return nil, err
	}
	hc.Transport = rt

	client := github.NewClient(hc)
	if o.baseURL != nil {
		client.BaseURL = o.baseURL
	}

	return &Service{
		client:      client,
		tokenSource: ts,
		retry:       o.retry,
		branch:      o.branch,
	}, nil
}

// GetRepository implements gitservice.Service.
func (s *Service) GetRepository(ctx context.Context, name string) (*gitservice.Repository, error) {
	owner, repo, ok := gitservice.SplitFullName(name)
	if !ok {
		user, err := s.LoggedUser(ctx)
		if err != nil {
			return nil, err
		}
		owner = user.Login
	}
	return s.getRepository(ctx, owner, repo)
}

// GetRepositoryInOrganization implements gitservice.Service.
func (s *Service) GetRepositoryInOrganization(ctx context.Context, org gitservice.Organization, name string) (*gitservice.Repository, error) {
	return s.getRepository(ctx, org.Name, name)
}

func (s *Service) getRepository(ctx context.Context, owner, name string) (*gitservice.Repository, error) {
	r, err := retry.Do(ctx, s.retry, "get repository", rateLimitVerdict, func() (*github.Repository, error) {
		r, _, err := s.client.Repositories.Get(ctx, owner, name)
		return r, err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", gitservice.ErrNoSuchRepository, owner, name)
		}
		return nil, fmt.Errorf("getting repository %s/%s: %w", owner, name, err)
	}
	return toRepository(r), nil
}

// CreateRepository implements gitservice.Service.
func (s *Service) CreateRepository(ctx context.Context, name, description string) (*gitservice.Repository, error) {
	return s.createRepository(ctx, "", name, description)
}

// CreateRepositoryInOrganization implements gitservice.Service.
func (s *Service) CreateRepositoryInOrganization(ctx context.Context, org gitservice.Organization, name, description string) (*gitservice.Repository, error) {
	return s.createRepository(ctx, org.Name, name, description)
}

func (s *Service) createRepository(ctx context.Context, org, name, description string) (*gitservice.Repository, error) {
	req := &github.Repository{Name: github.Ptr(name)}
	if description != "" {
		req.Description = github.Ptr(description)
	}

	r, err := retry.Do(ctx, s.retry, "create repository", rateLimitVerdict, func() (*github.Repository, error) {
		r, _, err := s.client.Repositories.Create(ctx, org, req)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("creating repository %s: %w", gitservice.FullName(org, name), err)
	}

	clog.FromContext(ctx).With("repository", r.GetFullName()).Info("Created repository")
	return toRepository(r), nil
}

// CreateHook implements gitservice.Service. Hooks are delivered as JSON for
// push events.
func (s *Service) CreateHook(ctx context.Context, repo *gitservice.Repository, secret, url string) (*gitservice.Hook, error) {
	req := &github.Hook{
		Name:   github.Ptr("web"),
		Active: github.Ptr(true),
		Events: []string{"push"},
		Config: &github.HookConfig{
			URL:         github.Ptr(url),
			ContentType: github.Ptr("json"),
		},
	}
	if secret != "" {
		req.Config.Secret = github.Ptr(secret)
	}

	h, err := retry.Do(ctx, s.retry, "create hook", rateLimitVerdict, func() (*github.Hook, error) {
		h, _, err := s.client.Repositories.CreateHook(ctx, repo.Owner, repo.Name, req)
		return h, err
	})
	if err != nil {
		if isDuplicateHook(err) {
			return nil, fmt.Errorf("%w: %s on %s", gitservice.ErrDuplicateHook, url, repo.FullName)
		}
		return nil, fmt.Errorf("creating hook %s on %s: %w", url, repo.FullName, err)
	}

	return &gitservice.Hook{
		ID:     h.GetID(),
		URL:    h.GetConfig().GetURL(),
		Events: h.Events,
	}, nil
}

// LoggedUser implements gitservice.Service.
func (s *Service) LoggedUser(ctx context.Context) (*gitservice.User, error) {
	u, err := retry.Do(ctx, s.retry, "get user", rateLimitVerdict, func() (*github.User, error) {
		u, _, err := s.client.Users.Get(ctx, "")
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting authenticated user: %w", err)
	}
	return &gitservice.User{
		Login: u.GetLogin(),
		Name:  u.GetName(),
		Email: u.GetEmail(),
	}, nil
}

func toRepository(r *github.Repository) *gitservice.Repository {
	return &gitservice.Repository{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		HomepageURL: r.GetHTMLURL(),
		CloneURL:    r.GetCloneURL(),
	}
}
