/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubservice

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"chainguard.dev/launcher/internal/retry"
	"github.com/bradleyfalzon/ghinstallation/v2"
	"golang.org/x/oauth2"
)

// Option configures a Service.
type Option func(*options) error

type options struct {
	tokenSource oauth2.TokenSource
	app         *appInstallation
	baseURL     *url.URL
	httpClient  *http.Client
	retry       retry.Config
	branch      string
}

type appInstallation struct {
	appID          int64
	installationID int64
	privateKey     []byte
}

func defaultOptions() *options {
	return &options{
		retry:  retry.DefaultConfig(),
		branch: "master",
	}
}

// WithToken authenticates with a static access token.
func WithToken(token string) Option {
	return func(o *options) error {
		if token == "" {
			return errors.New("token must not be empty")
		}
		o.tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		return nil
	}
}

// WithTokenSource authenticates with tokens from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *options) error {
		if ts == nil {
			return errors.New("token source must not be nil")
		}
		o.tokenSource = ts
		return nil
	}
}

// WithAppInstallation authenticates as installationID of the GitHub App
// appID, signing with the PEM encoded privateKey.
func WithAppInstallation(appID, installationID int64, privateKey []byte) Option {
	return func(o *options) error {
		if appID <= 0 || installationID <= 0 {
			return fmt.Errorf("invalid app installation %d/%d", appID, installationID)
		}
		if len(privateKey) == 0 {
			return errors.New("app private key must not be empty")
		}
		o.app = &appInstallation{
			appID:          appID,
			installationID: installationID,
			privateKey:     privateKey,
		}
		return nil
	}
}

// WithBaseURL points the REST client at a GitHub Enterprise API endpoint,
// e.g. https://github.example.com/api/v3/.
func WithBaseURL(raw string) Option {
	return func(o *options) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base URL %q must be absolute", raw)
		}
		o.baseURL = u
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for REST calls. Authentication is
// layered on top of its transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("http client must not be nil")
		}
		o.httpClient = c
		return nil
	}
}

// WithRetryConfig sets how rate-limited REST calls are retried.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		o.retry = cfg
		return nil
	}
}

// WithDefaultBranch sets the branch created when Push initializes a fresh
// repository. Defaults to "master".
func WithDefaultBranch(branch string) Option {
	return func(o *options) error {
		if branch == "" {
			return errors.New("default branch must not be empty")
		}
		o.branch = branch
		return nil
	}
}

// transport builds the authenticated round tripper for REST calls and the
// token source used for git basic auth.
func (o *options) transport(base http.RoundTripper) (http.RoundTripper, oauth2.TokenSource, error) {
	if base == nil {
		base = http.DefaultTransport
	}

	switch {
	case o.app != nil:
		itr, err := ghinstallation.New(base, o.app.appID, o.app.installationID, o.app.privateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("creating installation transport: %w", err)
		}
		if o.baseURL != nil {
			itr.BaseURL = strings.TrimSuffix(o.baseURL.String(), "/")
		}
		return itr, &installationTokenSource{itr: itr}, nil

	case o.tokenSource != nil:
		ts := oauth2.ReuseTokenSource(nil, o.tokenSource)
		return &oauth2.Transport{Source: ts, Base: base}, ts, nil

	default:
		return base, nil, nil
	}
}
