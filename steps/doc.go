/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package steps drives a project creation request through the Git hosting
// phases: create (or resolve) the repository, push the project, register
// webhooks.
//
// A CreateProjectile carries the request. Its StartOfStep names the first
// phase to run, so a request that failed while pushing can be resubmitted
// with StartOfStep set to events.GitHubPushed: the repository is resolved
// instead of created and the push is attempted again. Every phase emits its
// status event whether its action ran or was bypassed, so observers always see
// GITHUB_CREATE, GITHUB_PUSHED and GITHUB_WEBHOOK in order.
//
//	gs := steps.New(svc, steps.WithWebhookSecret(secret))
//	p, err := steps.NewCreateProjectile(dir, sink,
//		steps.WithGitOrganization("acme"),
//		steps.WithGitRepository("demo", "A demo project"))
//	if err != nil {
//		return err
//	}
//	report, err := gs.Run(ctx, p, hooks)
//
// Conditions that are recovered from instead of failing the request, such as
// a webhook that is already registered, are reported in the Outcome of the
// phase.
package steps
