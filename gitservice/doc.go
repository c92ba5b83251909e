/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitservice describes the Git hosting capability used to launch
// projects: repository lookup and creation, clone, push, webhook registration
// and the identity of the authenticated user.
//
// Implementations live in sub-packages. githubservice talks to GitHub (or a
// GitHub Enterprise instance); gitservicetest provides an in-memory fake for
// tests of code that depends on a Service.
//
// Errors are classified with errors.Is against the sentinels in this package:
//
//   - ErrNoSuchRepository: a lookup found nothing.
//   - ErrDuplicateHook: the webhook is already registered on the repository.
//   - ErrIO: local filesystem or clone failures.
package gitservice
