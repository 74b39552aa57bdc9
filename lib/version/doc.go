// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the resolve
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// Without injection, the commit falls back to the VCS stamp the Go
// toolchain embeds, and otherwise reads "unknown".
//
// [Info] formats them for "resolve version", [Full] adds the Go
// toolchain and platform, and [Short] is sent as the API client's
// User-Agent version.
package version
