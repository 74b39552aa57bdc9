// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal components shared by resolve's
// interactive views: the color theme and status/priority badges,
// dropdown and modal overlays, fuzzy matching, scrollbars, and the
// row-glow and status-line timers used to show mutation results.
//
// Components are plain values rendered by the owning bubbletea model.
// None of them run their own event loop.
package tui
