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

// Package swaperr holds the error kinds shared by the dictionary, the
// substitution engine and the container rewriter.
package swaperr

import (
	"gitlab.com/tozd/go/errors"
)

// 🏷️ error kinds, wrap with errors.Errorf("%w: ...", ErrX)
var (
	ErrLengthMismatch   = errors.Base("length mismatch")
	ErrOverlapViolation = errors.Base("overlap violation")
	ErrEmptyTerm        = errors.Base("empty term")
	ErrContainerFormat  = errors.Base("container format error")
	ErrEntryNotFound    = errors.Base("entry not found")
	ErrEncoding         = errors.Base("encoding error")
	ErrMarkupBroken     = errors.Base("markup broken")
	ErrStorage          = errors.Base("storage error")
	ErrIO               = errors.Base("io error")
)

// Wrap marks err with kind, keeping both in the chain for errors.Is.
func Wrap(kind, err error, msg string) error {
	return errors.Errorf("%w: %s: %w", kind, msg, err)
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrLengthMismatch, "LengthMismatch"},
	{ErrOverlapViolation, "OverlapViolation"},
	{ErrEmptyTerm, "EmptyTerm"},
	{ErrContainerFormat, "ContainerFormatError"},
	{ErrEntryNotFound, "EntryNotFound"},
	{ErrEncoding, "EncodingError"},
	{ErrMarkupBroken, "MarkupBroken"},
	{ErrStorage, "StorageError"},
	{ErrIO, "IoError"},
}

// 🔍 Kind returns the name of the first error kind found in err's chain, or
// "Unknown" when err carries none.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
