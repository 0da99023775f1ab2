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

package operation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔤 TextOptions controls ReplaceText
type TextOptions struct {
	Direction text.Direction

	// FromUnicode unescapes `\uXXXX` sequences in the input before replacing
	FromUnicode bool

	// Unicode escapes every non-ASCII character of the output
	Unicode bool
}

// 🔤 TextResult is the outcome of ReplaceText
type TextResult struct {
	Input        string
	Output       string
	Replacements int
}

// 🔤 ReplaceText runs the dictionary over plain text
func (o *Operator) ReplaceText(ctx context.Context, input string, opts TextOptions) (*TextResult, error) {
	pairs, err := o.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	replacer := text.NewSimpleTextReplacer()
	if err := replacer.ValidatePairs(pairs); err != nil {
		return nil, errors.Errorf("validating dictionary pairs: %w", err)
	}

	source := input
	if opts.FromUnicode {
		source, err = text.UnescapeUnicode(input)
		if err != nil {
			return nil, swaperr.Wrap(swaperr.ErrEncoding, err, "decoding unicode escapes")
		}
	}

	res, err := replacer.ReplaceText(ctx, strings.NewReader(source), pairs, opts.Direction)
	if err != nil {
		return nil, errors.Errorf("replacing text: %w", err)
	}

	output := string(res.ModifiedContent)
	if opts.Unicode {
		output = text.EscapeUnicode(output)
	}

	zerolog.Ctx(ctx).Debug().
		Str("direction", opts.Direction.String()).
		Int("replacements", res.ReplacementCount).
		Msg("text replaced")

	return &TextResult{
		Input:        input,
		Output:       output,
		Replacements: res.ReplacementCount,
	}, nil
}
