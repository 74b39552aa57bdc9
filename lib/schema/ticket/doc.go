// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket defines the wire types of the ticketing service as the
// client consumes them: users and roles, tickets, comments, audit
// entries, and the request forms submitted to create or modify them.
//
// The service is the source of truth and is not fully consistent about
// field names across endpoints, so decoding is lenient: tickets accept
// both requestType and request_type, comments accept comment or text
// and an author given as a user object or a plain name, and audit
// values may arrive as strings, numbers, or null. Enumerated values
// (roles, statuses, priorities, request types) are compared through
// [Normalize], which ignores case, underscores, hyphens, and spaces.
//
// Role gating lives in action.go: each client action names the roles
// allowed to perform it, and [Allowed] answers whether a role may.
package ticket
