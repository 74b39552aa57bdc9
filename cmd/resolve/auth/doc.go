// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the session commands: login, logout,
// register, and whoami. Login exchanges credentials for a bearer token
// and writes the session file every other command reads; logout
// removes it along with the user's chat history.
package auth
