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
	"fmt"
)

// 📖 Entry is one stored find/replace pair
type Entry struct {
	ID      int64  `json:"id" yaml:"id"`
	Find    string `json:"find" yaml:"find"`
	Replace string `json:"replace" yaml:"replace"`
}

// String returns a string representation of the entry
func (e Entry) String() string {
	return fmt.Sprintf("#%d %q -> %q", e.ID, e.Find, e.Replace)
}

// 🚦 Outcome tells how an insert that returned no error ended
type Outcome int

const (
	// OutcomeInserted means a new entry was persisted
	OutcomeInserted Outcome = iota
	// OutcomeReplaceOverlap means the replace side overlaps stored replace
	// values. Nothing was persisted, but the call is not treated as a failure.
	// Stores opened WithStrictReplace report this case as ErrOverlapViolation.
	OutcomeReplaceOverlap
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeReplaceOverlap:
		return "replace-overlap"
	default:
		return "unknown"
	}
}

// InsertResult is the success-shaped result of Store.Insert
type InsertResult struct {
	Outcome Outcome

	// Entry is the persisted entry, nil unless Outcome is OutcomeInserted
	Entry *Entry

	// Conflicts lists the stored entries whose replace value overlaps the candidate
	Conflicts []Entry

	// Message is a human readable summary
	Message string
}

// Inserted reports whether the entry was persisted
func (r *InsertResult) Inserted() bool {
	return r != nil && r.Outcome == OutcomeInserted
}

// DeleteResult is the result of Store.Delete
type DeleteResult struct {
	ID      int64
	Removed bool // false when no entry had the id
	Message string
}
