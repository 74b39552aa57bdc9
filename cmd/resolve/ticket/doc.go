// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket implements the "resolve ticket" command group.
//
// Every subcommand opens the saved session and checks the role gate
// before sending anything: creating is for requesters, the assigned
// list for data members, status changes for data members and admins,
// and assignment for admins. List commands filter locally with
// [ticketfilter] after one fetch. The viewer subcommand runs the
// interactive browser from [ticketui] over the same API client.
package ticket
