// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the resolve binary.
//
// A command tree is built from [Command] values. Leaf commands declare
// a params struct whose tagged fields become flags (see [BindFlags]),
// and a Run function that receives a context and a logger scoped to the
// command. Parents dispatch on the first positional argument and offer
// "did you mean" suggestions for typos in command and flag names.
//
// Commands that talk to the ticketing service embed [Connection] in
// their params. [Connection.Open] loads the configuration, reads the
// saved session, checks the session's role against the command's
// action, and returns an authenticated API client. Wrong-role and
// logged-out invocations fail before any request is made.
//
// Errors returned by Run are printed as "error: ..." by main. Errors
// built with the category constructors ([Validation], [NotFound],
// [Forbidden], ...) carry a category and an optional hint; [FromAPIError]
// maps service responses onto those categories.
package cli
