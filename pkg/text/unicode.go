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
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"gitlab.com/tozd/go/errors"
)

// EscapeUnicode rewrites every non-ASCII rune of s as a \uXXXX escape. Runes
// outside the basic plane become a surrogate pair. A backslash that is
// followed by 'u' is written as \u005c so the text unescapes back to s.
func EscapeUnicode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		if r == '\\' && strings.HasPrefix(s[i+1:], "u") {
			b.WriteString(`\u005c`)
			continue
		}
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", hi, lo)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}

// UnescapeUnicode is the inverse of EscapeUnicode. Text that is not part of a
// \uXXXX escape passes through untouched, so a literal \u in text that was not
// produced by EscapeUnicode is decoded like any other escape.
func UnescapeUnicode(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if !strings.HasPrefix(s[i:], `\u`) {
			b.WriteByte(s[i])
			i++
			continue
		}
		unit, err := parseUnit(s, i)
		if err != nil {
			return "", err
		}
		i += 6

		if !utf16.IsSurrogate(rune(unit)) {
			b.WriteRune(rune(unit))
			continue
		}

		// high surrogate must be followed by an escaped low surrogate
		if unit >= 0xDC00 || !strings.HasPrefix(s[i:], `\u`) {
			return "", errors.Errorf("unpaired surrogate \\u%04x at offset %d", unit, i-6)
		}
		low, err := parseUnit(s, i)
		if err != nil {
			return "", err
		}
		r := utf16.DecodeRune(rune(unit), rune(low))
		if r == unicode.ReplacementChar {
			return "", errors.Errorf("invalid surrogate pair \\u%04x\\u%04x at offset %d", unit, low, i-6)
		}
		b.WriteRune(r)
		i += 6
	}
	return b.String(), nil
}

func parseUnit(s string, at int) (uint16, error) {
	if len(s) < at+6 {
		return 0, errors.Errorf("truncated escape at offset %d", at)
	}
	v, err := strconv.ParseUint(s[at+2:at+6], 16, 16)
	if err != nil {
		return 0, errors.Errorf("invalid escape %q at offset %d", s[at:at+6], at)
	}
	return uint16(v), nil
}
