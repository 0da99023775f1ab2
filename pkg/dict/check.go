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

package dict

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/walteh/docswap/pkg/swaperr"
	"gitlab.com/tozd/go/errors"
)

// 🧱 Column names one side of the dictionary
type Column string

const (
	ColumnFind    Column = "find"
	ColumnReplace Column = "replace"
)

// containment in either direction, literal and case sensitive
var conflictQueries = map[Column]string{
	ColumnFind:    `SELECT id, find, "replace" FROM replacements WHERE instr(?, find) > 0 OR instr(find, ?) > 0 ORDER BY id`,
	ColumnReplace: `SELECT id, find, "replace" FROM replacements WHERE instr(?, "replace") > 0 OR instr("replace", ?) > 0 ORDER BY id`,
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Overlaps reports whether either string contains the other.
func Overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Conflicts returns the entries whose value in col overlaps candidate. It is
// the in-memory form of the check the store runs before every insert.
func Conflicts(entries []Entry, col Column, candidate string) []Entry {
	var out []Entry
	for _, e := range entries {
		v := e.Find
		if col == ColumnReplace {
			v = e.Replace
		}
		if Overlaps(v, candidate) {
			out = append(out, e)
		}
	}
	return out
}

// 🔮 Preview applies the insert rules for find and replace to entries without
// touching a store. The result matches what Insert would return against a
// store holding exactly entries; a pair that would be stored comes back with
// an Entry whose ID is zero.
func Preview(entries []Entry, find, replace string, strict bool) (*InsertResult, error) {
	if err := validateTerms(find, replace); err != nil {
		return nil, err
	}

	if found := Conflicts(entries, ColumnFind, find); len(found) > 0 {
		return nil, errors.Errorf("%w: find %q overlaps %s", swaperr.ErrOverlapViolation, find, describe(found, ColumnFind))
	}

	if found := Conflicts(entries, ColumnReplace, replace); len(found) > 0 {
		msg := fmt.Sprintf("replace %q overlaps %s", replace, describe(found, ColumnReplace))
		if strict {
			return nil, errors.Errorf("%w: %s", swaperr.ErrOverlapViolation, msg)
		}
		return &InsertResult{
			Outcome:   OutcomeReplaceOverlap,
			Conflicts: found,
			Message:   "not added: " + msg,
		}, nil
	}

	entry := &Entry{Find: find, Replace: replace}
	return &InsertResult{
		Outcome: OutcomeInserted,
		Entry:   entry,
		Message: fmt.Sprintf("would add %q -> %q", find, replace),
	}, nil
}

// validateTerms checks the rules that need no stored state
func validateTerms(find, replace string) error {
	if find == "" || replace == "" {
		return errors.Errorf("%w: find and replace must both be non-empty", swaperr.ErrEmptyTerm)
	}
	fl, rl := utf8.RuneCountInString(find), utf8.RuneCountInString(replace)
	if fl != rl {
		return errors.Errorf("%w: find %q has %d characters, replace %q has %d", swaperr.ErrLengthMismatch, find, fl, replace, rl)
	}
	return nil
}

// storedConflicts runs the containment query for one column
func storedConflicts(ctx context.Context, q querier, col Column, candidate string) ([]Entry, error) {
	rows, err := q.QueryContext(ctx, conflictQueries[col], candidate, candidate)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "checking "+string(col)+" overlap")
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "checking "+string(col)+" overlap")
	}
	return entries, nil
}

// checkCandidate applies the full rule set against the current store. The find
// side is checked first and is always fatal.
func checkCandidate(ctx context.Context, q querier, find, replace string) ([]Entry, error) {
	if err := validateTerms(find, replace); err != nil {
		return nil, err
	}

	findConflicts, err := storedConflicts(ctx, q, ColumnFind, find)
	if err != nil {
		return nil, err
	}
	if len(findConflicts) > 0 {
		return nil, errors.Errorf("%w: find %q overlaps %s", swaperr.ErrOverlapViolation, find, describe(findConflicts, ColumnFind))
	}

	return storedConflicts(ctx, q, ColumnReplace, replace)
}

func describe(entries []Entry, col Column) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		v := e.Find
		if col == ColumnReplace {
			v = e.Replace
		}
		parts = append(parts, fmt.Sprintf("%q (id %d)", v, e.ID))
	}
	return "existing " + string(col) + " " + strings.Join(parts, ", ")
}
