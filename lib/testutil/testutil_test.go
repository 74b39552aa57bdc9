// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureStdout(t *testing.T) {
	output := CaptureStdout(t, func() {
		fmt.Println("first")
		fmt.Print(strings.Repeat("x", 200000))
	})
	if !strings.HasPrefix(output, "first\n") || len(output) != len("first\n")+200000 {
		t.Errorf("captured %d bytes", len(output))
	}
}

func TestUniqueID(t *testing.T) {
	first, second := UniqueID("user"), UniqueID("user")
	if first == second || !strings.HasPrefix(first, "user-") {
		t.Errorf("UniqueID = %q, %q", first, second)
	}
}

func TestIsolateConfig(t *testing.T) {
	t.Setenv("RESOLVE_API_URL", "http://elsewhere")
	directory := IsolateConfig(t)
	if got := os.Getenv("RESOLVE_SESSION_FILE"); got != filepath.Join(directory, "session.json") {
		t.Errorf("RESOLVE_SESSION_FILE = %q", got)
	}
	if os.Getenv("RESOLVE_API_URL") != "" {
		t.Error("RESOLVE_API_URL should be cleared")
	}
	working, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if resolved, _ := filepath.EvalSymlinks(directory); working != directory && working != resolved {
		t.Errorf("working directory = %q, want %q", working, directory)
	}
}
