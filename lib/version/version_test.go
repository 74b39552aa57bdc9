// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	original := [4]string{Version, GitCommit, GitDirty, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = original[0], original[1], original[2], original[3]
	})

	Version, GitCommit, GitDirty, BuildTime = "1.2.0", "abc1234", "false", "2026-04-01T00:00:00Z"
	if got, want := Info(), "1.2.0 (abc1234, 2026-04-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want the dirty marker", got)
	}
	if full := Full(); !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Platform: ") {
		t.Errorf("Full() = %q", full)
	}
	if Short() != "1.2.0" {
		t.Errorf("Short() = %q", Short())
	}
}
