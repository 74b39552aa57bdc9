// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketui implements the interactive ticket browser: a
// bubbletea program with a ticket list on the left and the selected
// ticket's description, comments and history on the right.
//
// What the browser offers depends on the viewer's role. Requesters see
// their own tickets and may comment on them. Data members get an
// "Assigned to me" tab and may change status. Admins see everything
// and may also assign tickets to data members.
//
// Data comes through the [Source] interface. Mutations need the
// source to also implement [Mutator], and the assignee menu needs
// [UserLister]; [apiclient.Client] implements all three.
//
// Data flow:
//
//	[ticket service]
//	      | (Source, Mutator, UserLister)
//	  [Model] <- bubbletea event loop
//	      |
//	[terminal output]
package ticketui
