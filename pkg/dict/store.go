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

// Package dict keeps the substitution dictionary: an ordered set of
// equal-length find/replace pairs persisted in a SQLite file.
//
// All access goes through a Store, which serialises every operation behind a
// single mutex and can be pointed at a different dictionary file at runtime.
package dict

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// the layout is shared with dictionaries written by earlier desktop releases
const schema = `CREATE TABLE IF NOT EXISTS replacements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	find TEXT NOT NULL UNIQUE,
	"replace" TEXT NOT NULL
)`

// function variables for error path tests
var (
	sqlOpen = sql.Open
	statFn  = os.Stat
)

// 📚 Store is a mutex guarded handle on the current dictionary file
type Store struct {
	mu            sync.Mutex
	db            *sql.DB
	location      string
	strictReplace bool
}

// Option configures a Store
type Option func(*Store)

// WithStrictReplace makes a replace-side overlap fail Insert with
// ErrOverlapViolation instead of returning OutcomeReplaceOverlap.
func WithStrictReplace(strict bool) Option {
	return func(s *Store) {
		s.strictReplace = strict
	}
}

// 🏭 Open creates a store backed by the dictionary at location
func Open(ctx context.Context, location string, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Repoint(ctx, location); err != nil {
		return nil, err
	}
	return s, nil
}

// DriverType reports which SQLite implementation was compiled in
func DriverType() string {
	return driverType
}

// Location returns the path of the current dictionary file
func (s *Store) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// 🔀 Repoint switches the store to the dictionary at location. An absent or
// empty file gets a fresh schema; anything else is opened as-is and only
// fails, with ErrStorage, once it is queried.
func (s *Store) Repoint(ctx context.Context, location string) error {
	logger := zerolog.Ctx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := openLocation(ctx, location)
	if err != nil {
		return err
	}

	old := s.db
	s.db = db
	s.location = location

	if old != nil {
		if err := old.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing previous dictionary")
		}
	}

	logger.Debug().Str("location", location).Str("driver", driverType).Msg("dictionary opened")
	return nil
}

func openLocation(ctx context.Context, location string) (*sql.DB, error) {
	fresh := false
	info, err := statFn(location)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fresh = true
	case err != nil:
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "inspecting dictionary "+location)
	case info.IsDir():
		return nil, errors.Errorf("%w: dictionary %s is a directory", swaperr.ErrStorage, location)
	case info.Size() == 0:
		fresh = true
	}

	db, err := sqlOpen(driverName, location)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "opening dictionary "+location)
	}
	// one connection: a single writer, and in-memory databases stay shared
	db.SetMaxOpenConns(1)

	if fresh {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return nil, swaperr.Wrap(swaperr.ErrStorage, err, "initialising dictionary "+location)
		}
	}

	return db, nil
}

// Close releases the current dictionary handle
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return swaperr.Wrap(swaperr.ErrStorage, err, "closing dictionary")
	}
	return nil
}

func (s *Store) handle() (*sql.DB, error) {
	if s.db == nil {
		return nil, errors.Errorf("%w: dictionary is closed", swaperr.ErrStorage)
	}
	return s.db, nil
}

// ➕ Insert validates the pair against the whole store and persists it.
//
// Errors: ErrEmptyTerm, ErrLengthMismatch (character counts differ),
// ErrOverlapViolation (find overlaps a stored find), ErrStorage. A replace that
// overlaps a stored replace is not an error unless the store is strict: the
// result carries OutcomeReplaceOverlap and nothing is written.
func (s *Store) Insert(ctx context.Context, find, replace string) (*InsertResult, error) {
	logger := zerolog.Ctx(ctx)

	// cheap rejections first, no lock needed
	if err := validateTerms(find, replace); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "starting insert")
	}
	defer tx.Rollback() //nolint:errcheck

	replaceConflicts, err := checkCandidate(ctx, tx, find, replace)
	if err != nil {
		logger.Debug().Err(err).Str("find", find).Msg("insert rejected")
		return nil, err
	}

	if len(replaceConflicts) > 0 {
		msg := fmt.Sprintf("replace %q overlaps %s", replace, describe(replaceConflicts, ColumnReplace))
		if s.strictReplace {
			return nil, errors.Errorf("%w: %s", swaperr.ErrOverlapViolation, msg)
		}
		logger.Debug().Str("replace", replace).Int("conflicts", len(replaceConflicts)).Msg("insert skipped on replace overlap")
		return &InsertResult{
			Outcome:   OutcomeReplaceOverlap,
			Conflicts: replaceConflicts,
			Message:   "not added: " + msg,
		}, nil
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO replacements (find, "replace") VALUES (?, ?)`, find, replace)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "inserting entry")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "reading entry id")
	}
	if err := tx.Commit(); err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "committing insert")
	}

	entry := &Entry{ID: id, Find: find, Replace: replace}
	logger.Debug().Int64("id", id).Str("find", find).Str("replace", replace).Msg("entry inserted")

	return &InsertResult{
		Outcome: OutcomeInserted,
		Entry:   entry,
		Message: "added " + entry.String(),
	}, nil
}

// ➖ Delete removes the entry with id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM replacements WHERE id = ?`, id)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "deleting entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "deleting entry")
	}

	result := &DeleteResult{ID: id, Removed: n > 0, Message: "deleted"}
	if !result.Removed {
		result.Message = "nothing to delete"
	}
	zerolog.Ctx(ctx).Debug().Int64("id", id).Bool("removed", result.Removed).Msg("entry deleted")
	return result, nil
}

// 📋 List returns every entry in id order
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list(ctx)
}

func (s *Store) list(ctx context.Context) ([]Entry, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, find, "replace" FROM replacements ORDER BY id`)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "listing entries")
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrStorage, err, "listing entries")
	}
	return entries, nil
}

// Pairs snapshots the dictionary for the substitution engine, in id order
func (s *Store) Pairs(ctx context.Context) ([]text.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	pairs := make([]text.Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, text.Pair{From: e.Find, To: e.Replace})
	}
	return pairs, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Find, &e.Replace); err != nil {
			return nil, errors.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("reading entries: %w", err)
	}
	return entries, nil
}
