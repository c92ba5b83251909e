/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package events

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
)

// LocationKey is the data key under which the GitHubCreate event carries the
// repository homepage URL.
const LocationKey = "location"

// StatusEvent reports that a projectile reached the end of a phase.
type StatusEvent struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"statusMessage"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// New returns a StatusEvent for the projectile id. The data map is copied.
func New(id string, kind Kind, data map[string]any) StatusEvent {
	var d map[string]any
	if len(data) > 0 {
		d = maps.Clone(data)
	}
	return StatusEvent{
		ID:        id,
		Kind:      kind,
		Data:      d,
		Timestamp: time.Now().UTC(),
	}
}

// Sink receives status events.
type Sink interface {
	Accept(context.Context, StatusEvent)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(context.Context, StatusEvent)

// Accept calls f.
func (f SinkFunc) Accept(ctx context.Context, ev StatusEvent) {
	f(ctx, ev)
}

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(context.Context, StatusEvent) {})

// Tee returns a Sink that forwards each event to every sink in order.
// Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, ev StatusEvent) {
		for _, s := range sinks {
			if s != nil {
				s.Accept(ctx, ev)
			}
		}
	})
}

// LogSink returns a Sink that logs every event through the context logger.
func LogSink() Sink {
	return SinkFunc(func(ctx context.Context, ev StatusEvent) {
		log := clog.FromContext(ctx).With("projectile", ev.ID, "kind", ev.Kind.String())
		for _, k := range slices.Sorted(maps.Keys(ev.Data)) {
			log = log.With(k, ev.Data[k])
		}
		log.Info("Status event")
	})
}

// Recorder is a Sink that keeps every event it receives. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []StatusEvent
}

var _ Sink = (*Recorder)(nil)

// Accept records ev.
func (r *Recorder) Accept(_ context.Context, ev StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Kinds returns the kinds of the recorded events in arrival order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, 0, len(r.events))
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
