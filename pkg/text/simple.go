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
	"strings"

	"github.com/walteh/docswap/pkg/swaperr"
	"gitlab.com/tozd/go/errors"
)

// SimpleTextReplacer implements TextReplacer using sequential literal replacement.
//
// Each pair is applied to the output of the previous one, so text written by an
// earlier pair can be matched by a later pair. Dictionaries keep their columns
// overlap-free to make such cascades rare; the ordering is part of the contract.
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// Apply runs the pairs over s in order and returns the rewritten text.
func Apply(s string, pairs []Pair, dir Direction) string {
	out, _ := apply(s, pairs, dir)
	return out
}

func apply(s string, pairs []Pair, dir Direction) (string, int) {
	count := 0
	for _, p := range pairs {
		from, to := p.Oriented(dir)
		if from == "" {
			continue
		}
		n := strings.Count(s, from)
		if n == 0 {
			continue
		}
		count += n
		s = strings.ReplaceAll(s, from, to)
	}
	return s, count
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, pairs []Pair, dir Direction) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	modified, count := apply(string(originalContent), pairs, dir)

	return &ReplacementResult{
		OriginalContent:  originalContent,
		ModifiedContent:  []byte(modified),
		ReplacementCount: count,
		WasModified:      modified != string(originalContent),
	}, nil
}

// ValidatePairs implements TextReplacer.ValidatePairs
func (r *SimpleTextReplacer) ValidatePairs(pairs []Pair) error {
	for i, p := range pairs {
		if p.From == "" {
			return errors.Errorf("%w: pair %d: from is required", swaperr.ErrEmptyTerm, i)
		}
		if p.To == "" {
			return errors.Errorf("%w: pair %d: to is required", swaperr.ErrEmptyTerm, i)
		}
	}
	return nil
}
