/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubservice

import (
	"context"
	"fmt"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
)

// installationTokenSource exposes GitHub App installation tokens as an
// oauth2.TokenSource. ghinstallation caches and refreshes the token.
type installationTokenSource struct {
	itr *ghinstallation.Transport
}

func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	return s.TokenContext(context.Background())
}

// TokenContext is Token bound to ctx, so a cancelled caller does not wait on
// a token refresh.
func (s *installationTokenSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	tok, err := s.itr.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting installation token: %w", err)
	}
	return &oauth2.Token{AccessToken: tok}, nil
}

type contextTokenSource interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
}

// gitAuth returns the credentials git uses against the remote. It is nil when
// the service is unauthenticated.
func (s *Service) gitAuth(ctx context.Context) (transport.AuthMethod, error) {
	if s.tokenSource == nil {
		return nil, nil
	}

	var (
		token *oauth2.Token
		err   error
	)
	if cts, ok := s.tokenSource.(contextTokenSource); ok {
		token, err = cts.TokenContext(ctx)
	} else {
		token, err = s.tokenSource.Token()
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}
