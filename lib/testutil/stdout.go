// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// CaptureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written. The pipe is drained concurrently so large output
// cannot block fn. Tests using it must not run in parallel.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writer

	captured := make(chan string, 1)
	go func() {
		var buffer bytes.Buffer
		_, _ = io.Copy(&buffer, reader)
		reader.Close()
		captured <- buffer.String()
	}()

	defer func() {
		os.Stdout = original
	}()
	fn()
	writer.Close()
	return <-captured
}
