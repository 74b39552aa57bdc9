// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown renders ticket descriptions and comments for the
// terminal. Input is parsed with goldmark (GitHub-flavored, plus
// definition lists) and written as word-wrapped, lipgloss-styled text;
// fenced code blocks are highlighted with chroma.
//
// Soft line breaks become spaces, so text typed into a browser form
// with arbitrary wrapping reflows to the terminal width.
package markdown
