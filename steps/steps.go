/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package steps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"chainguard.dev/launcher/events"
	"chainguard.dev/launcher/gitservice"
	"chainguard.dev/launcher/internal/substitute"
	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultReadmePath is the README templated before the push, relative to
	// the project location.
	DefaultReadmePath = "README.adoc"

	// LoggedUserVariable is the placeholder replaced with the login of the
	// authenticated user.
	LoggedUserVariable = "loggedUser"

	clonePrefix = "imported"
)

// GitSteps runs the Git hosting phases of project creation. It holds no
// per-request state and is safe for concurrent use.
type GitSteps struct {
	svc           gitservice.Service
	filesystem    func(root string) billy.Filesystem
	readmePath    string
	webhookSecret string
	tempDir       string
}

// Option configures GitSteps.
type Option func(*GitSteps)

// WithFilesystem sets how the project location is accessed for README
// templating. Defaults to the host filesystem.
func WithFilesystem(fn func(root string) billy.Filesystem) Option {
	return func(g *GitSteps) { g.filesystem = fn }
}

// WithReadmePath sets the README path relative to the project location.
func WithReadmePath(path string) Option {
	return func(g *GitSteps) { g.readmePath = path }
}

// WithWebhookSecret sets the secret webhooks are registered with.
func WithWebhookSecret(secret string) Option {
	return func(g *GitSteps) { g.webhookSecret = secret }
}

// WithTempDir sets the directory clones are created under. Defaults to the
// system temporary directory.
func WithTempDir(dir string) Option {
	return func(g *GitSteps) { g.tempDir = dir }
}

// New returns GitSteps operating on svc.
func New(svc gitservice.Service, opts ...Option) *GitSteps {
	g := &GitSteps{
		svc:        svc,
		filesystem: func(root string) billy.Filesystem { return osfs.New(root) },
		readmePath: DefaultReadmePath,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func startSpan(ctx context.Context, name string, p *CreateProjectile) (context.Context, trace.Span) {
	tr := otel.Tracer("chainguard.dev/launcher/steps",
		trace.WithInstrumentationVersion("1.0.0"))
	attrs := []attribute.KeyValue{}
	if p != nil {
		attrs = append(attrs,
			attribute.String("projectile.id", p.ID()),
			attribute.String("projectile.start_of_step", p.StartOfStep().String()),
			attribute.String("repository.name", p.RepositoryName()),
		)
	}
	return tr.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// FindRepository looks up an existing repository, in organization when it is
// not empty. The error wraps gitservice.ErrNoSuchRepository when there is
// none.
func (g *GitSteps) FindRepository(ctx context.Context, organization, name string) (repo *gitservice.Repository, err error) {
	ctx, span := startSpan(ctx, "steps.find_repository", nil)
	defer func() { endSpan(span, err) }()

	if organization != "" {
		repo, err = g.svc.GetRepositoryInOrganization(ctx, gitservice.Organization{Name: organization}, name)
	} else {
		repo, err = g.svc.GetRepository(ctx, name)
	}
	return checkFound(repo, err, gitservice.FullName(organization, name))
}

func checkFound(repo *gitservice.Repository, err error, fullName string) (*gitservice.Repository, error) {
	switch {
	case errors.Is(err, gitservice.ErrNoSuchRepository), err == nil && repo == nil:
		return nil, fmt.Errorf("%w: '%s'", gitservice.ErrNoSuchRepository, fullName)
	case err != nil:
		return nil, fmt.Errorf("looking up repository '%s': %w", fullName, err)
	}
	return repo, nil
}

// Clone clones repo into a new temporary directory and returns its path. The
// caller owns the directory. Failures wrap gitservice.ErrIO and leave nothing
// behind.
func (g *GitSteps) Clone(ctx context.Context, repo *gitservice.Repository) (path string, err error) {
	ctx, span := startSpan(ctx, "steps.clone", nil)
	defer func() { endSpan(span, err) }()

	dir, err := os.MkdirTemp(g.tempDir, clonePrefix)
	if err != nil {
		return "", fmt.Errorf("%w: creating temp directory: %w", gitservice.ErrIO, err)
	}

	path, err = g.svc.Clone(ctx, repo, dir)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("%w: cloning %s: %w", gitservice.ErrIO, repo.FullName, err)
	}
	return path, nil
}

// CreateRepository creates the repository of p, or resolves it when p resumes
// past creation, then emits GitHubCreate with the repository homepage.
func (g *GitSteps) CreateRepository(ctx context.Context, p *CreateProjectile) (repo *gitservice.Repository, err error) {
	ctx, span := startSpan(ctx, "steps.create_repository", p)
	out := Outcome{Step: events.GitHubCreate, Skipped: p.StartOfStep().After(events.GitHubCreate)}
	defer func() {
		observe(out, err)
		endSpan(span, err)
	}()

	log := clog.FromContext(ctx).With("projectile", p.ID())
	org, name := p.GitOrganization(), p.RepositoryName()

	switch {
	case out.Skipped:
		log.Infof("Resuming at %s, resolving existing repository %s", p.StartOfStep(), gitservice.FullName(org, name))
		repo, err = g.svc.GetRepository(ctx, gitservice.FullName(org, name))
		repo, err = checkFound(repo, err, gitservice.FullName(org, name))
	case org != "":
		repo, err = g.svc.CreateRepositoryInOrganization(ctx, gitservice.Organization{Name: org}, name, p.Description())
	default:
		repo, err = g.svc.CreateRepository(ctx, name, p.Description())
	}
	if err != nil {
		return nil, err
	}

	p.emit(ctx, events.GitHubCreate, map[string]any{events.LocationKey: repo.HomepageURL})
	return repo, nil
}

// Push templates the README of p and pushes its project location to repo,
// unless p resumes past the push. GitHubPushed is emitted in both cases. A
// README templating failure is recovered from; a push failure is returned and
// no event is emitted.
func (g *GitSteps) Push(ctx context.Context, p *CreateProjectile, repo *gitservice.Repository) (out Outcome, err error) {
	ctx, span := startSpan(ctx, "steps.push", p)
	out = Outcome{Step: events.GitHubPushed, Skipped: p.StartOfStep().After(events.GitHubPushed)}
	defer func() {
		observe(out, err)
		endSpan(span, err)
	}()

	if !out.Skipped {
		rec, err := g.templateReadme(ctx, p)
		if err != nil {
			return out, err
		}
		if rec != nil {
			out.Recovered = append(out.Recovered, *rec)
		}

		if err := g.svc.Push(ctx, repo, p.ProjectLocation()); err != nil {
			return out, fmt.Errorf("pushing to %s: %w", repo.FullName, err)
		}
	}

	p.emit(ctx, events.GitHubPushed, nil)
	return out, nil
}

// templateReadme substitutes the logged user into the README, if there is
// one. Filesystem failures are logged and returned as a Recovered condition.
func (g *GitSteps) templateReadme(ctx context.Context, p *CreateProjectile) (*Recovered, error) {
	fs := g.filesystem(p.ProjectLocation())
	fi, err := fs.Stat(g.readmePath)
	if err != nil {
		return nil, nil
	}

	user, err := g.svc.LoggedUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting logged user: %w", err)
	}

	if err := replaceInFile(fs, g.readmePath, fi.Mode().Perm(), map[string]string{LoggedUserVariable: user.Login}); err != nil {
		clog.FromContext(ctx).With("path", g.readmePath).Errorf("Error while replacing %s variables: %v", g.readmePath, err)
		return &Recovered{Kind: RecoveredReadmeTemplate, Target: g.readmePath, Err: err}, nil
	}
	return nil, nil
}

func replaceInFile(fs billy.Filesystem, path string, perm os.FileMode, values map[string]string) error {
	content, err := util.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := util.WriteFile(fs, path, []byte(substitute.Replace(string(content), values)), perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CreateWebhooks registers a webhook on repo for every URL in webhooks, then
// emits GitHubWebhook. Hooks that are already registered are recovered from;
// any other failure is returned and no event is emitted.
func (g *GitSteps) CreateWebhooks(ctx context.Context, p *CreateProjectile, repo *gitservice.Repository, webhooks []*url.URL) (out Outcome, err error) {
	ctx, span := startSpan(ctx, "steps.create_webhooks", p)
	span.SetAttributes(attribute.Int("webhooks", len(webhooks)))
	out = Outcome{Step: events.GitHubWebhook}
	defer func() {
		observe(out, err)
		endSpan(span, err)
	}()

	log := clog.FromContext(ctx).With("projectile", p.ID())
	for _, u := range webhooks {
		if _, err := g.svc.CreateHook(ctx, repo, g.webhookSecret, u.String()); err != nil {
			if errors.Is(err, gitservice.ErrDuplicateHook) {
				log.Debugf("Webhook %s already registered on %s: %v", u, repo.FullName, err)
				out.Recovered = append(out.Recovered, Recovered{Kind: RecoveredDuplicateHook, Target: u.String(), Err: err})
				continue
			}
			return out, fmt.Errorf("creating webhook %s on %s: %w", u, repo.FullName, err)
		}
		log.Infof("Registered webhook %s on %s", u, repo.FullName)
	}

	p.emit(ctx, events.GitHubWebhook, nil)
	return out, nil
}

// Run executes every phase of p in order and stops at the first failure. The
// report covers the phases reached, including the failed one.
func (g *GitSteps) Run(ctx context.Context, p *CreateProjectile, webhooks []*url.URL) (*Report, error) {
	report := &Report{}

	repo, err := g.CreateRepository(ctx, p)
	report.Outcomes = append(report.Outcomes, Outcome{
		Step:    events.GitHubCreate,
		Skipped: p.StartOfStep().After(events.GitHubCreate),
	})
	if err != nil {
		return report, err
	}
	report.Repository = repo

	out, err := g.Push(ctx, p, repo)
	report.Outcomes = append(report.Outcomes, out)
	if err != nil {
		return report, err
	}

	out, err = g.CreateWebhooks(ctx, p, repo, webhooks)
	report.Outcomes = append(report.Outcomes, out)
	if err != nil {
		return report, err
	}

	clog.FromContext(ctx).With("projectile", p.ID()).Infof("Project %s launched", repo.FullName)
	return report, nil
}
