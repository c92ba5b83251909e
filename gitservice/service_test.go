/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitservice

import "testing"

func TestFullName(t *testing.T) {
	tests := []struct {
		org, name, want string
	}{{
		org:  "acme",
		name: "demo",
		want: "acme/demo",
	}, {
		name: "demo",
		want: "demo",
	}}

	for _, tt := range tests {
		if got := FullName(tt.org, tt.name); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.org, tt.name, got, tt.want)
		}
	}
}

func TestSplitFullName(t *testing.T) {
	owner, name, ok := SplitFullName("acme/demo")
	if !ok || owner != "acme" || name != "demo" {
		t.Errorf("SplitFullName(acme/demo) = %q, %q, %v", owner, name, ok)
	}

	owner, name, ok = SplitFullName("demo")
	if ok || owner != "" || name != "demo" {
		t.Errorf("SplitFullName(demo) = %q, %q, %v", owner, name, ok)
	}
}
