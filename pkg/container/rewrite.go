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

// Package container rewrites the text entry of a zip based document.
//
// Every entry other than the target is copied raw, so its compressed bytes,
// CRC and compression method come out exactly as they went in. The target
// entry is decoded as UTF-8, run through the substitution engine and written
// back under the same name with the same compression method.
package container

import (
	"bytes"
	"context"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultTarget is the body part of a WordprocessingML package
const DefaultTarget = "word/document.xml"

// function variables for error path tests
var (
	zipOpen   = func(f *zip.File) (io.ReadCloser, error) { return f.Open() }
	zipCopy   = func(zw *zip.Writer, f *zip.File) error { return zw.Copy(f) }
	zipCreate = func(zw *zip.Writer, fh *zip.FileHeader) (io.Writer, error) { return zw.CreateHeader(fh) }
	zipClose  = func(zw *zip.Writer) error { return zw.Close() }
	readAll   = io.ReadAll
)

// 🔧 Options controls a rewrite
type Options struct {
	// Target is the entry to rewrite, DefaultTarget when empty
	Target string

	// Pairs are applied in order, see text.Apply
	Pairs []text.Pair

	// Direction selects find->replace or replace->find
	Direction text.Direction

	// VerifyMarkup fails the rewrite when the result no longer parses as XML
	VerifyMarkup bool

	// Level is the deflate level for the target entry, flate.DefaultCompression when zero
	Level int
}

func (o Options) target() string {
	if o.Target == "" {
		return DefaultTarget
	}
	return o.Target
}

// 📦 Result describes a finished rewrite
type Result struct {
	// Data is the complete new archive
	Data []byte

	// Entries is the number of entries written, always equal to the input's
	Entries int

	// Replacements is the number of occurrences replaced in the target text
	Replacements int

	// Changed reports whether the target text differs from the original
	Changed bool
}

// 🔄 Rewrite builds a new archive from data with the target entry's text
// substituted. data is never modified and nothing is returned on failure.
//
// Errors: ErrEmptyTerm, ErrContainerFormat, ErrEntryNotFound, ErrEncoding,
// ErrMarkupBroken, ErrIO.
func Rewrite(ctx context.Context, data []byte, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	target := opts.target()

	replacer := text.NewSimpleTextReplacer()
	if err := replacer.ValidatePairs(opts.Pairs); err != nil {
		return nil, errors.Errorf("validating pairs: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrContainerFormat, err, "opening archive")
	}

	source := findEntry(zr, target)
	if source == nil {
		return nil, errors.Errorf("%w: %s", swaperr.ErrEntryNotFound, target)
	}

	raw, err := readEntry(source)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, errors.Errorf("%w: %s is not valid UTF-8", swaperr.ErrEncoding, target)
	}

	replaced, err := replacer.ReplaceText(ctx, bytes.NewReader(raw), opts.Pairs, opts.Direction)
	if err != nil {
		return nil, errors.Errorf("replacing text: %w", err)
	}

	if opts.VerifyMarkup {
		if err := verifyMarkup(replaced.ModifiedContent); err != nil {
			return nil, swaperr.Wrap(swaperr.ErrMarkupBroken, err, target+" after substitution")
		}
	}

	out, err := assemble(zr, target, replaced.ModifiedContent, opts.Level)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("target", target).
		Str("direction", opts.Direction.String()).
		Int("entries", len(zr.File)).
		Int("replacements", replaced.ReplacementCount).
		Int("size_in", len(data)).
		Int("size_out", len(out)).
		Msg("archive rewritten")

	return &Result{
		Data:         out,
		Entries:      len(zr.File),
		Replacements: replaced.ReplacementCount,
		Changed:      replaced.WasModified,
	}, nil
}

// findEntry returns the first entry named target
func findEntry(zr *zip.Reader, target string) *zip.File {
	for _, f := range zr.File {
		if f.Name == target {
			return f
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := zipOpen(f)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrContainerFormat, err, "opening "+f.Name)
	}
	defer rc.Close()

	raw, err := readAll(rc)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrContainerFormat, err, "reading "+f.Name)
	}
	return raw, nil
}

// assemble writes every entry of zr in order; entries named target get content
func assemble(zr *zip.Reader, target string, content []byte, level int) ([]byte, error) {
	if level == 0 {
		level = flate.DefaultCompression
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	if zr.Comment != "" {
		if err := zw.SetComment(zr.Comment); err != nil {
			return nil, swaperr.Wrap(swaperr.ErrIO, err, "setting archive comment")
		}
	}

	for _, f := range zr.File {
		if f.Name != target {
			if err := zipCopy(zw, f); err != nil {
				return nil, swaperr.Wrap(swaperr.ErrIO, err, "copying "+f.Name)
			}
			continue
		}

		w, err := zipCreate(zw, targetHeader(f))
		if err != nil {
			return nil, swaperr.Wrap(swaperr.ErrIO, err, "creating "+f.Name)
		}
		if _, err := w.Write(content); err != nil {
			return nil, swaperr.Wrap(swaperr.ErrIO, err, "writing "+f.Name)
		}
	}

	if err := zipClose(zw); err != nil {
		return nil, swaperr.Wrap(swaperr.ErrIO, err, "finishing archive")
	}
	return buf.Bytes(), nil
}

// targetHeader keeps the identity of the original entry; sizes and CRC are
// recomputed by the writer
func targetHeader(f *zip.File) *zip.FileHeader {
	return &zip.FileHeader{
		Name:           f.Name,
		Comment:        f.Comment,
		NonUTF8:        f.NonUTF8,
		CreatorVersion: f.CreatorVersion,
		Method:         f.Method,
		Modified:       f.Modified,
		ExternalAttrs:  f.ExternalAttrs,
	}
}
