// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat holds the support-assistant conversation: the
// transcript, its per-user saved copy, and quick-reply extraction
// from the assistant's replies.
package chat
