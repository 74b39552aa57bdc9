// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxQuickReplies caps how many options are offered for one reply.
const MaxQuickReplies = 5

// QuickReply is one selectable option found in a bot reply. Selecting
// it sends Key as if the user had typed it.
type QuickReply struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var (
	lineBreak = regexp.MustCompile(`\r?\n`)

	// enumeratedLine matches "1. Create ticket", "b) Status",
	// "- 2- Escalate": an optional bullet, a number or single letter,
	// then ".", ")" or "-". The label ends at a bare carriage return
	// or Unicode line separator.
	enumeratedLine = regexp.MustCompile(`^[\-\*\s]*([0-9]+|[A-Za-z])[\.\)\-]\s*([^\r\n\x{2028}\x{2029}]+)`)

	inlineFirst   = regexp.MustCompile(`1\.\s*([^2]+)`)
	inlineMarkers = regexp.MustCompile(`(?:\r?\n|1\.|2\.|3\.)`)
)

// ExtractQuickReplies finds the options a bot reply offers.
//
// Each line is trimmed and matched against an enumerator prefix; every
// matching line yields (enumerator, rest of line). When no line
// matches but the text contains an inline "1." followed by more text,
// the text is split on line breaks and the markers "1.", "2.", "3.";
// if more than one non-empty piece remains, the pieces become options
// keyed "1", "2", ... in order. At most [MaxQuickReplies] options are
// returned. Text without enumerators yields nil.
func ExtractQuickReplies(text string) []QuickReply {
	if text == "" {
		return nil
	}

	var options []QuickReply
	for _, line := range lineBreak.Split(text, -1) {
		match := enumeratedLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		options = append(options, QuickReply{Key: match[1], Label: strings.TrimSpace(match[2])})
	}

	if len(options) == 0 && inlineFirst.MatchString(text) {
		var pieces []string
		for _, piece := range inlineMarkers.Split(text, -1) {
			if piece = strings.TrimSpace(piece); piece != "" {
				pieces = append(pieces, piece)
			}
		}
		if len(pieces) > 1 {
			for index, piece := range pieces {
				options = append(options, QuickReply{Key: strconv.Itoa(index + 1), Label: piece})
			}
		}
	}

	if len(options) > MaxQuickReplies {
		options = options[:MaxQuickReplies]
	}
	return options
}
