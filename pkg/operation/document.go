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
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/container"
	"github.com/walteh/docswap/pkg/status"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📄 DocumentResult is the outcome of rewriting one document
type DocumentResult struct {
	Input        string
	Output       string
	Direction    text.Direction
	Replacements int
	Changed      bool // target entry text changed
	Entries      int  // entries in the archive
	Status       status.FileStatus
	Checksum     string
	Err          error
}

// Failed reports whether the document could not be rewritten
func (r *DocumentResult) Failed() bool {
	return r.Err != nil
}

// 📝 ProcessDocument rewrites one document with the current dictionary and
// writes `<path><suffix>.docx` beside it.
func (o *Operator) ProcessDocument(ctx context.Context, path string, dir text.Direction) (*DocumentResult, error) {
	pairs, err := o.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	res := o.process(ctx, path, dir, pairs)
	return res, res.Err
}

// 📚 ProcessMany expands patterns and rewrites every matched document against
// one dictionary snapshot, at most config.Workers at a time. Per-document
// failures are reported in the results; the error is for expansion, the
// dictionary and cancellation.
func (o *Operator) ProcessMany(ctx context.Context, patterns []string, dir text.Direction) ([]*DocumentResult, error) {
	paths, err := o.Expand(ctx, patterns)
	if err != nil {
		return nil, err
	}

	pairs, err := o.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*DocumentResult, len(paths))
	var done atomic.Int64
	ops := make([]Operation, len(paths))
	for i, path := range paths {
		ops[i] = &documentOperation{
			op:     o,
			path:   path,
			dir:    dir,
			pairs:  pairs,
			result: &results[i],
			done:   &done,
		}
	}

	o.status.StartOperation(ctx, len(paths))
	runErr := NewRunner(zerolog.Ctx(ctx), o.config.Workers).Run(ctx, ops...)
	o.status.FinishOperation(ctx)

	finished := make([]*DocumentResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			finished = append(finished, r)
		}
	}
	if runErr != nil {
		return finished, errors.Errorf("processing documents: %w", runErr)
	}
	return finished, nil
}

// 🔍 Expand resolves glob patterns into a sorted, de-duplicated list of
// documents. An argument naming an existing file is taken literally, even when
// it holds glob metacharacters, and is always kept. Glob matches that are
// ignored or look like earlier outputs are dropped; a pattern that matches
// nothing is an ErrIO.
func (o *Operator) Expand(ctx context.Context, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, pattern := range patterns {
		if fi, err := os.Stat(pattern); err == nil && fi.Mode().IsRegular() {
			add(filepath.Clean(pattern))
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("%w: no documents match %q", swaperr.ErrIO, pattern)
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if seen[m] || o.ignored(ctx, m) {
				continue
			}
			add(m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func (o *Operator) ignored(ctx context.Context, path string) bool {
	logger := zerolog.Ctx(ctx)

	if status.IsOutput(path, o.config.Suffix.Forward, o.config.Suffix.Reverse) {
		logger.Debug().Str("path", path).Msg("skipping earlier output")
		return true
	}

	slashed := filepath.ToSlash(path)
	for _, pattern := range o.config.IgnorePatterns {
		for _, candidate := range []string{slashed, filepath.Base(path)} {
			matched, err := doublestar.Match(pattern, candidate)
			if err != nil {
				logger.Debug().Str("pattern", pattern).Str("path", path).Err(err).Msg("error matching pattern")
				continue
			}
			if matched {
				logger.Debug().Str("path", path).Str("pattern", pattern).Msg("document ignored by pattern")
				return true
			}
		}
	}
	return false
}

func (o *Operator) snapshot(ctx context.Context) ([]text.Pair, error) {
	pairs, err := o.dict.Pairs(ctx)
	if err != nil {
		return nil, errors.Errorf("reading dictionary pairs: %w", err)
	}
	return pairs, nil
}

func (o *Operator) process(ctx context.Context, path string, dir text.Direction, pairs []text.Pair) *DocumentResult {
	res := &DocumentResult{Input: path, Direction: dir}

	info, err := o.rewrite(ctx, path, dir, pairs, res)
	if err != nil {
		res.Err = errors.Errorf("processing %s: %w", path, err)
		res.Status = status.StatusFailed
		o.status.TrackFile(ctx, path, status.FileInfo{Status: status.StatusFailed, Error: res.Err})
		return res
	}

	res.Status = info.Status
	res.Checksum = info.Checksum
	o.status.TrackFile(ctx, path, info)
	return res
}

func (o *Operator) rewrite(ctx context.Context, path string, dir text.Direction, pairs []text.Pair, res *DocumentResult) (status.FileInfo, error) {
	output, err := status.OutputPath(path, o.suffix(dir))
	if err != nil {
		return status.FileInfo{}, err
	}

	data, err := o.files.ReadFile(ctx, path)
	if err != nil {
		return status.FileInfo{}, err
	}

	out, err := container.Rewrite(ctx, data, container.Options{
		Target:       o.config.TargetEntry,
		Pairs:        pairs,
		Direction:    dir,
		VerifyMarkup: o.config.VerifyMarkup,
		Level:        o.config.CompressionLevel,
	})
	if err != nil {
		return status.FileInfo{}, err
	}

	info, err := o.files.WriteFileAtomic(ctx, output, out.Data)
	if err != nil {
		return status.FileInfo{}, err
	}
	info.Replacements = out.Replacements

	res.Output = output
	res.Replacements = out.Replacements
	res.Changed = out.Changed
	res.Entries = out.Entries
	return info, nil
}

// 📄 documentOperation rewrites one document of a batch
type documentOperation struct {
	op     *Operator
	path   string
	dir    text.Direction
	pairs  []text.Pair
	result **DocumentResult
	done   *atomic.Int64
}

func (d *documentOperation) Execute(ctx context.Context) error {
	*d.result = d.op.process(ctx, d.path, d.dir, d.pairs)
	d.op.status.UpdateProgress(ctx, int(d.done.Add(1)))
	return nil
}
