// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching a pattern against one text.
// Score is zero when the pattern does not match. Positions are the
// ascending rune offsets of the matched characters, for highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// NewFuzzySlab returns scratch memory for [FuzzyMatch]. Reusing one
// slab across a filter pass avoids an allocation per candidate. A slab
// must not be shared between goroutines.
func NewFuzzySlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch runs fzf's V2 matcher over text. Matching is
// case-insensitive: both sides are lowercased before matching. An
// empty pattern never matches. slab may be nil.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}
	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	var matched []int
	if positions != nil {
		matched = append(matched, *positions...)
		slices.Sort(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}

// HighlightMatches renders text with the runes at positions styled by
// highlight and the rest by base. Both take lipgloss Style.Render.
func HighlightMatches(text string, positions []int, base, highlight func(...string) string) string {
	if len(positions) == 0 {
		return base(text)
	}
	marked := make(map[int]bool, len(positions))
	for _, position := range positions {
		marked[position] = true
	}
	var builder strings.Builder
	var run []rune
	runHighlighted := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runHighlighted {
			builder.WriteString(highlight(string(run)))
		} else {
			builder.WriteString(base(string(run)))
		}
		run = run[:0]
	}
	for index, character := range []rune(text) {
		if marked[index] != runHighlighted {
			flush()
			runHighlighted = marked[index]
		}
		run = append(run, character)
	}
	flush()
	return builder.String()
}
