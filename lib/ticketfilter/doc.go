// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketfilter implements the client-side narrowing of ticket
// and user lists: search and dropdown filters, the option lists those
// dropdowns offer, the open-tickets view, and assignee candidates.
// Everything here is a pure function of already-fetched data.
package ticketfilter
