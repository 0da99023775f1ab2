// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"context"
	"io"
)

// 🧭 Direction selects which side of a dictionary entry is searched for
type Direction int

const (
	Forward Direction = iota // find -> replace
	Reverse                  // replace -> find
)

// String returns a string representation of Direction
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// 🔄 Pair is one find/replace mapping as stored in the dictionary
type Pair struct {
	// From is the text searched for in forward mode
	From string

	// To is the text written in forward mode
	To string
}

// Oriented returns the search and substitute strings for the given direction
func (p Pair) Oriented(dir Direction) (from, to string) {
	if dir == Reverse {
		return p.To, p.From
	}
	return p.From, p.To
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of occurrences replaced, summed over every pass
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the pairs to the content, one whole-buffer pass per pair
	ReplaceText(ctx context.Context, content io.Reader, pairs []Pair, dir Direction) (*ReplacementResult, error)

	// ValidatePairs checks that all pairs are usable
	ValidatePairs(pairs []Pair) error
}
