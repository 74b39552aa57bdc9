// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat implements "resolve chat", the support assistant. With
// a message argument it sends one message and prints the reply and any
// quick replies; without one it opens the interactive chat widget from
// [chatui]. Either way the conversation is saved per user and picked
// up by the next invocation.
package chat
