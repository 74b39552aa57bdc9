// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// IsolateConfig points the config directory, the session file, and the
// working directory at a fresh temp directory, and clears the
// environment variables that override the service URL. It returns the
// directory. The session file is <dir>/session.json.
func IsolateConfig(t *testing.T) string {
	t.Helper()
	directory := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", directory)
	t.Setenv("RESOLVE_CONFIG", "")
	t.Setenv("RESOLVE_API_URL", "")
	t.Setenv("VITE_API_URL", "")
	t.Setenv("RESOLVE_SESSION_FILE", filepath.Join(directory, "session.json"))
	t.Chdir(directory)
	return directory
}
