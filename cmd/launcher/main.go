/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main launches a project on GitHub: it creates (or resumes) the
// repository, pushes the project, registers webhooks and prints a summary of
// the status events.
//
// The project comes either from a local directory (PROJECT_LOCATION) or from
// an existing repository that is cloned into a scratch directory first
// (SOURCE_REPOSITORY). Scratch directories are deleted in the background once
// the run is over.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chainguard.dev/launcher/events"
	"chainguard.dev/launcher/gitservice"
	"chainguard.dev/launcher/gitservice/githubservice"
	"chainguard.dev/launcher/reaper"
	"chainguard.dev/launcher/steps"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/chainguard-dev/terraform-infra-common/pkg/httpmetrics"
	"github.com/chainguard-dev/terraform-infra-common/pkg/profiler"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	// Either a token or a GitHub App installation.
	GitHubToken          string `env:"GITHUB_TOKEN"`
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	GitHubAppPrivateKey  string `env:"GITHUB_APP_PRIVATE_KEY"`
	GitHubAPIURL         string `env:"GITHUB_API_URL"`

	GitOrganization          string `env:"GIT_ORGANIZATION"`
	GitRepository            string `env:"GIT_REPOSITORY"`
	GitRepositoryDescription string `env:"GIT_REPOSITORY_DESCRIPTION"`
	ProjectName              string `env:"PROJECT_NAME"`

	// ProjectLocation is pushed as is; SourceRepository ("owner/name" or a
	// bare name) is cloned into a scratch directory instead.
	ProjectLocation  string `env:"PROJECT_LOCATION"`
	SourceRepository string `env:"SOURCE_REPOSITORY"`

	StartOfStep   events.Kind `env:"START_OF_STEP"`
	WebhookURLs   []string    `env:"WEBHOOK_URLS"`
	WebhookSecret string      `env:"WEBHOOK_SECRET"`

	ReaperWorkers int  `env:"REAPER_WORKERS,default=2"`
	KeepProject   bool `env:"KEEP_PROJECT,default=false"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go httpmetrics.ScrapeDiskUsage(ctx)
	profiler.SetupProfiler()
	defer httpmetrics.SetupTracer(ctx)()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		clog.FatalContextf(ctx, "launching project: %v", err)
	}
}

// newService is replaced in tests.
var newService = func(ctx context.Context, cfg config) (gitservice.Service, error) {
	var opts []githubservice.Option
	switch {
	case cfg.GitHubAppID != 0:
		opts = append(opts, githubservice.WithAppInstallation(cfg.GitHubAppID, cfg.GitHubInstallationID, []byte(cfg.GitHubAppPrivateKey)))
	case cfg.GitHubToken != "":
		opts = append(opts, githubservice.WithToken(cfg.GitHubToken))
	default:
		return nil, errors.New("GITHUB_TOKEN or GITHUB_APP_ID is required")
	}
	if cfg.GitHubAPIURL != "" {
		opts = append(opts, githubservice.WithBaseURL(cfg.GitHubAPIURL))
	}
	return githubservice.New(ctx, opts...)
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	hooks, err := parseWebhooks(cfg.WebhookURLs)
	if err != nil {
		return err
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating git service: %w", err)
	}

	pool := reaper.NewPool(ctx, cfg.ReaperWorkers)
	defer pool.Close()
	reap := reaper.New(reaper.WithExecutor(pool))

	gs := steps.New(svc, steps.WithWebhookSecret(cfg.WebhookSecret))

	location := cfg.ProjectLocation
	if cfg.SourceRepository != "" {
		owner, name, _ := gitservice.SplitFullName(cfg.SourceRepository)
		src, err := gs.FindRepository(ctx, owner, name)
		if err != nil {
			return err
		}
		location, err = gs.Clone(ctx, src)
		if err != nil {
			return err
		}
		clog.InfoContextf(ctx, "Imported %s into %s", src.FullName, location)
		if !cfg.KeepProject {
			defer reap.Delete(ctx, location)
		}
	}
	if location == "" {
		return errors.New("PROJECT_LOCATION or SOURCE_REPOSITORY is required")
	}

	rec := &events.Recorder{}
	p, err := steps.NewCreateProjectile(location, events.Tee(events.LogSink(), rec),
		steps.WithStartOfStep(cfg.StartOfStep),
		steps.WithGitOrganization(cfg.GitOrganization),
		steps.WithGitRepository(cfg.GitRepository, cfg.GitRepositoryDescription),
		steps.WithProjectName(cfg.ProjectName),
	)
	if err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	report, err := gs.Run(ctx, p, hooks)
	renderSummary(out, rec.Events(), report)
	return err
}

// parseWebhooks parses absolute http(s) URLs. Blank entries are ignored.
func parseWebhooks(raw []string) ([]*url.URL, error) {
	var hooks []*url.URL
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		u, err := url.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("parsing webhook URL %q: %w", r, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("webhook URL %q must be an absolute http(s) URL", r)
		}
		hooks = append(hooks, u)
	}
	return hooks, nil
}

func renderSummary(w io.Writer, evs []events.StatusEvent, report *steps.Report) {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 120,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader([]string{"Step", "Status", "Details"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	emitted := make(map[events.Kind]events.StatusEvent, len(evs))
	for _, ev := range evs {
		emitted[ev.Kind] = ev
	}

	for _, k := range events.Kinds() {
		ev, ok := emitted[k]
		status := stepStatus(k, ok, report)

		var details []string
		if loc, ok := ev.Data[events.LocationKey].(string); ok {
			details = append(details, loc)
		}
		if report != nil {
			if o, ok := report.Outcome(k); ok {
				for _, r := range o.Recovered {
					details = append(details, fmt.Sprintf("%s: %s", r.Kind, r.Target))
				}
			}
		}

		_ = table.Append([]string{k.String(), status, strings.Join(details, ", ")})
	}
	_ = table.Render()
}

func stepStatus(k events.Kind, emitted bool, report *steps.Report) string {
	var o steps.Outcome
	reached := false
	if report != nil {
		o, reached = report.Outcome(k)
	}
	switch {
	case !reached:
		return "not reached"
	case !emitted:
		return "failed"
	case o.Skipped:
		return "skipped"
	default:
		return "done"
	}
}
