/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package events

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKindOrdering(t *testing.T) {
	all := []Kind{NotStarted, GitHubCreate, GitHubPushed, GitHubWebhook}
	for i, a := range all {
		for j, b := range all {
			if got, want := a.Before(b), i < j; got != want {
				t.Errorf("%v.Before(%v) = %v, want %v", a, b, got, want)
			}
			if got, want := a.After(b), i > j; got != want {
				t.Errorf("%v.After(%v) = %v, want %v", a, b, got, want)
			}
			if got := Compare(a, b); (got == 0) != (i == j) {
				t.Errorf("Compare(%v, %v) = %d", a, b, got)
			}
		}
	}

	if !slices.IsSortedFunc(all, Compare) {
		t.Error("execution order is not sorted by Compare")
	}
	if diff := cmp.Diff(all[1:], Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{{
		in:   "",
		want: NotStarted,
	}, {
		in:   "NOT_STARTED",
		want: NotStarted,
	}, {
		in:   "GITHUB_CREATE",
		want: GitHubCreate,
	}, {
		in:   " github_pushed ",
		want: GitHubPushed,
	}, {
		in:   "GITHUB_WEBHOOK",
		want: GitHubWebhook,
	}, {
		in:      "OPENSHIFT_CREATE",
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatusEventJSON(t *testing.T) {
	ev := New("abc", GitHubCreate, map[string]any{LocationKey: "https://github.com/acme/demo"})

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["statusMessage"] != "GITHUB_CREATE" {
		t.Errorf("statusMessage = %v, want GITHUB_CREATE", got["statusMessage"])
	}
	data, _ := got["data"].(map[string]any)
	if data[LocationKey] != "https://github.com/acme/demo" {
		t.Errorf("data = %v", got["data"])
	}

	var back StatusEvent
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal into StatusEvent: %v", err)
	}
	if back.Kind != GitHubCreate {
		t.Errorf("Kind = %v, want %v", back.Kind, GitHubCreate)
	}
}

func TestNewCopiesData(t *testing.T) {
	data := map[string]any{LocationKey: "a"}
	ev := New("id", GitHubCreate, data)
	data[LocationKey] = "b"

	if ev.Data[LocationKey] != "a" {
		t.Errorf("event data changed with caller map: %v", ev.Data)
	}
	if New("id", GitHubPushed, nil).Data != nil {
		t.Error("expected nil data for an event without payload")
	}
}

func TestTeeAndRecorder(t *testing.T) {
	ctx := context.Background()
	first, second := &Recorder{}, &Recorder{}
	sink := Tee(first, nil, second, LogSink(), Discard)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Accept(ctx, New("id", GitHubPushed, nil))
		}()
	}
	wg.Wait()

	if got := len(first.Events()); got != 10 {
		t.Errorf("first recorder got %d events, want 10", got)
	}
	if diff := cmp.Diff(first.Kinds(), second.Kinds()); diff != "" {
		t.Errorf("recorders diverged (-first +second):\n%s", diff)
	}

	first.Reset()
	if got := len(first.Events()); got != 0 {
		t.Errorf("after Reset got %d events, want 0", got)
	}
}
