/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package events defines the status events emitted while a project is being
// launched, and the sinks that receive them.
//
// Each phase of the create-project flow is identified by a Kind. Kinds form a
// total order that matches the order in which the phases execute:
//
//	NotStarted < GitHubCreate < GitHubPushed < GitHubWebhook
//
// The same ordering is used to decide which phases a resumed run may skip, so
// callers should always compare kinds through Compare, Before and After rather
// than relying on their underlying representation.
//
// # Sinks
//
// A Sink receives StatusEvent values as they are produced. Sinks must not
// block for long; the orchestration does not wait on them beyond the call.
//
//	rec := &events.Recorder{}
//	sink := events.Tee(events.LogSink(), rec)
//	sink.Accept(ctx, events.New(id, events.GitHubCreate, nil))
//	fmt.Println(rec.Kinds()) // [GITHUB_CREATE]
package events
