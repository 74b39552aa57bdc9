// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists the logged-in user between commands.
//
// The session file holds the bearer token and the user record the
// service returned at login. It is written owner-only (0600 in a 0700
// directory) since it contains a credential. Unreadable or malformed
// files are treated as "not logged in" so a corrupted file never
// blocks running "resolve login" again.
package session
