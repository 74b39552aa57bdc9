// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatui implements the support chat widget as a bubbletea
// program. It shows the transcript of a [chat.Conversation] as message
// bubbles, sends typed text to the assistant, and offers the options
// of the assistant's latest reply as quick-reply buttons: pressing a
// digit on an empty input, or Tab then Enter, sends that option's key
// as if it had been typed.
package chatui
