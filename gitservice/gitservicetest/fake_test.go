/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitservicetest

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/launcher/gitservice"
	"github.com/google/go-cmp/cmp"
)

func TestFakeRepositories(t *testing.T) {
	ctx := context.Background()
	f := NewFake()

	created, err := f.CreateRepositoryInOrganization(ctx, gitservice.Organization{Name: "acme"}, "demo", "desc")
	if err != nil {
		t.Fatalf("CreateRepositoryInOrganization: %v", err)
	}
	if created.HomepageURL != "https://github.com/acme/demo" {
		t.Errorf("HomepageURL = %q", created.HomepageURL)
	}

	if _, err := f.CreateRepositoryInOrganization(ctx, gitservice.Organization{Name: "acme"}, "demo", ""); err == nil {
		t.Error("expected creating an existing repository to fail")
	}

	got, err := f.GetRepository(ctx, "acme/demo")
	if err != nil {
		t.Fatalf("GetRepository: %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("repository mismatch (-want +got):\n%s", diff)
	}

	if _, err := f.GetRepository(ctx, "demo"); !errors.Is(err, gitservice.ErrNoSuchRepository) {
		t.Errorf("bare lookup in octocat's namespace: got %v, want ErrNoSuchRepository", err)
	}

	if _, err := f.CreateRepository(ctx, "demo", ""); err != nil {
		t.Fatalf("CreateRepository: %v", err)
	}
	if _, err := f.GetRepository(ctx, "demo"); err != nil {
		t.Errorf("bare lookup after create: %v", err)
	}
}

func TestFakeHooksAndFailures(t *testing.T) {
	ctx := context.Background()
	f := NewFake()
	repo := f.AddRepository("acme", "demo")

	if _, err := f.CreateHook(ctx, repo, "", "https://a.example.com"); err != nil {
		t.Fatalf("CreateHook: %v", err)
	}
	if _, err := f.CreateHook(ctx, repo, "", "https://a.example.com"); !errors.Is(err, gitservice.ErrDuplicateHook) {
		t.Errorf("second CreateHook: got %v, want ErrDuplicateHook", err)
	}

	boom := errors.New("boom")
	f.FailOn(MethodPush, boom)
	if err := f.Push(ctx, repo, "/tmp/x"); !errors.Is(err, boom) {
		t.Errorf("Push: got %v, want %v", err, boom)
	}
	f.FailOn(MethodPush, nil)
	if err := f.Push(ctx, repo, "/tmp/x"); err != nil {
		t.Errorf("Push after clearing failure: %v", err)
	}

	want := []string{MethodCreateHook, MethodCreateHook, MethodPush, MethodPush}
	if diff := cmp.Diff(want, f.Methods()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if got := f.Pushes("acme/demo"); len(got) != 1 {
		t.Errorf("Pushes = %v, want one push", got)
	}
	if got := f.Hooks("acme/demo"); len(got) != 1 {
		t.Errorf("Hooks = %v, want one hook", got)
	}
}
