// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package cli

// Annotations describes what a command does to service state. Help
// output marks mutating commands, and the command tree test requires
// every runnable command with params to declare them.
type Annotations struct {
	// ReadOnly is true when the command only reads state.
	ReadOnly bool

	// Idempotent is true when repeating the command with the same
	// arguments converges to the same state (status changes,
	// assignment, role changes).
	Idempotent bool

	// Destructive is true when the command removes something that
	// cannot be recovered from the service.
	Destructive bool
}

// ReadOnly returns annotations for list and show commands.
func ReadOnly() *Annotations {
	return &Annotations{ReadOnly: true, Idempotent: true}
}

// Idempotent returns annotations for commands that set a value.
func Idempotent() *Annotations {
	return &Annotations{Idempotent: true}
}

// Create returns annotations for commands whose effects accumulate:
// creating tickets, posting comments, sending chat messages.
func Create() *Annotations {
	return &Annotations{}
}

// Destructive returns annotations for commands that discard local or
// remote state.
func Destructive() *Annotations {
	return &Annotations{Destructive: true}
}

// label is the marker shown after the summary in help listings.
func (a *Annotations) label() string {
	if a != nil && a.Destructive {
		return " (destructive)"
	}
	return ""
}
