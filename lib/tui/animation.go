// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// HeatDecayDuration is how long a ticket row glows after a mutation.
const HeatDecayDuration = 3 * time.Second

// HeatTickInterval is the re-render interval while any row is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind selects the glow color.
type HeatKind int

const (
	// HeatUpdate marks a mutation the service accepted.
	HeatUpdate HeatKind = iota
	// HeatFailed marks a mutation the service rejected.
	HeatFailed
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker records when tickets last changed so rows can fade from
// a highlight back to normal over [HeatDecayDuration].
type HeatTracker struct {
	entries map[int64]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{entries: make(map[int64]heatEntry)}
}

// Ignite starts (or restarts) the glow for a ticket.
func (tracker *HeatTracker) Ignite(ticketID int64, kind HeatKind, now time.Time) {
	tracker.entries[ticketID] = heatEntry{ignition: now, kind: kind}
}

// Heat returns 1.0 at ignition decaying linearly to 0.0.
func (tracker *HeatTracker) Heat(ticketID int64, now time.Time) float64 {
	entry, exists := tracker.entries[ticketID]
	if !exists {
		return 0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= HeatDecayDuration {
		return 0
	}
	return 1 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns the heat kind for a ticket. Only meaningful while Heat
// is positive.
func (tracker *HeatTracker) Kind(ticketID int64) HeatKind {
	return tracker.entries[ticketID].kind
}

// HasHot reports whether any ticket is still glowing, dropping the
// entries that have fully decayed.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for ticketID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.entries, ticketID)
	}
	return hot
}

// StatusLine is a one-line message that disappears after its lifetime.
// The zero value shows nothing.
type StatusLine struct {
	Text    string
	IsError bool
	expires time.Time
}

// StatusLifetime is how long a status message stays visible.
const StatusLifetime = 5 * time.Second

// NewStatusLine creates a message visible from now for [StatusLifetime].
func NewStatusLine(text string, isError bool, now time.Time) StatusLine {
	return StatusLine{Text: text, IsError: isError, expires: now.Add(StatusLifetime)}
}

// Visible reports whether the message should still be drawn.
func (line StatusLine) Visible(now time.Time) bool {
	return line.Text != "" && now.Before(line.expires)
}

// Fading reports whether the message is in the last second of its
// lifetime, when views draw it faint.
func (line StatusLine) Fading(now time.Time) bool {
	return line.Visible(now) && line.expires.Sub(now) < time.Second
}
