/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubservice implements gitservice.Service on top of the GitHub
// REST API and go-git.
//
// Authentication is either a static OAuth2 token (a personal access token or
// any oauth2.TokenSource) or a GitHub App installation. The same credentials
// are used for REST calls and, as HTTP basic auth, for git clone and push.
//
//	svc, err := githubservice.New(ctx, githubservice.WithToken(token))
//	if err != nil {
//		return err
//	}
//	repo, err := svc.CreateRepositoryInOrganization(ctx, gitservice.Organization{Name: "acme"}, "demo", "")
//
// Point the service at a GitHub Enterprise instance with WithBaseURL.
package githubservice
