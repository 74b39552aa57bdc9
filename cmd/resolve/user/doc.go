// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package user implements the admin's account management commands:
// listing users by role, changing a user's role, and the "admin"
// dashboard that summarizes accounts, unassigned tickets, and each
// data member's workload.
package user
