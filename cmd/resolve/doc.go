// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Resolve is the terminal client for the Segmento ticketing service.
// It provides subcommands for accounts (login, logout, register,
// whoami), tickets (list, show, create, status, assign, comment,
// audit, and the interactive viewer), user role administration, and
// the support assistant chat.
package main
