// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for resolve packages.
//
// [CaptureStdout] runs a function with os.Stdout redirected and returns
// what it wrote; command tests use it to check text and --json output.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as distinct registration emails within one
// fake service.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no resolve-internal dependencies.
package testutil
