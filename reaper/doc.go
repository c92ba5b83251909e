/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reaper deletes scratch directories left behind by project creation.
//
// Deletion is best effort: failures are logged and never reported to the
// caller. With an Executor configured, Delete hands the work off and returns
// immediately, so the directory may still exist when it returns.
//
//	pool := reaper.NewPool(ctx, 2)
//	defer pool.Close()
//
//	r := reaper.New(reaper.WithExecutor(pool))
//	r.Delete(ctx, dir)
package reaper
