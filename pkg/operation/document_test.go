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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/docswap/pkg/config"
	"github.com/walteh/docswap/pkg/status"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🧪 trackedFile returns the status entry recorded for path
func trackedFile(t *testing.T, op *Operator, path string) status.FileInfo {
	t.Helper()
	files, err := op.Status().ListFiles(testContext(t))
	require.NoError(t, err)
	for _, f := range files {
		if f.Path == path {
			return f
		}
	}
	t.Fatalf("%s was not tracked", path)
	return status.FileInfo{}
}

var animalPairs = [][2]string{
	{"cat", "dog"},
	{"red", "big"},
	{"北京", "上海"},
}

func TestProcessDocument(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		dir        text.Direction
		wantOutput string
		wantBody   string
		wantCount  int
	}{
		{
			name:       "forward",
			body:       "the cat sat on the red mat in 北京",
			dir:        text.Forward,
			wantOutput: "doc.docx_processed.docx",
			wantBody:   "the dog sat on the big mat in 上海",
			wantCount:  3,
		},
		{
			name:       "reverse",
			body:       "a big dog in 上海",
			dir:        text.Reverse,
			wantOutput: "doc.docx_reversed.docx",
			wantBody:   "a red cat in 北京",
			wantCount:  3,
		},
		{
			name:       "nothing_to_replace",
			body:       "plain words only",
			dir:        text.Forward,
			wantOutput: "doc.docx_processed.docx",
			wantBody:   "plain words only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			op, _ := newTestOperator(t, nil, animalPairs...)

			dir := t.TempDir()
			input := filepath.Join(dir, "doc.docx")
			writeDocx(t, input, tt.body)
			before, err := os.ReadFile(input)
			require.NoError(t, err)

			res, err := op.ProcessDocument(ctx, input, tt.dir)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, tt.wantOutput), res.Output)
			assert.Equal(t, tt.wantCount, res.Replacements)
			assert.Equal(t, tt.wantCount > 0, res.Changed)
			assert.Equal(t, 2, res.Entries)
			assert.Equal(t, status.StatusNew, res.Status)
			assert.NotEmpty(t, res.Checksum)
			assert.False(t, res.Failed())
			assert.Equal(t, documentXML(tt.wantBody), documentText(t, res.Output))

			after, err := os.ReadFile(input)
			require.NoError(t, err)
			assert.Equal(t, before, after, "input must not be modified")

			info := trackedFile(t, op, input)
			assert.Equal(t, res.Output, info.Output)
			assert.Equal(t, tt.wantCount, info.Replacements)
		})
	}
}

func TestProcessDocumentRoundTrip(t *testing.T) {
	ctx := testContext(t)
	op, _ := newTestOperator(t, nil, animalPairs...)

	input := filepath.Join(t.TempDir(), "story.docx")
	body := "the cat saw a red fox in 北京"
	writeDocx(t, input, body)

	fwd, err := op.ProcessDocument(ctx, input, text.Forward)
	require.NoError(t, err)

	back, err := op.ProcessDocument(ctx, fwd.Output, text.Reverse)
	require.NoError(t, err)

	assert.Equal(t, input+"_processed.docx_reversed.docx", back.Output)
	assert.Equal(t, documentXML(body), documentText(t, back.Output))
}

func TestProcessDocumentRerun(t *testing.T) {
	ctx := testContext(t)
	op, _ := newTestOperator(t, nil, animalPairs...)

	input := filepath.Join(t.TempDir(), "doc.docx")
	writeDocx(t, input, "cat")

	first, err := op.ProcessDocument(ctx, input, text.Forward)
	require.NoError(t, err)
	assert.Equal(t, status.StatusNew, first.Status)

	second, err := op.ProcessDocument(ctx, input, text.Forward)
	require.NoError(t, err)
	assert.Equal(t, status.StatusUnchanged, second.Status, "the same input should produce the same output")
	assert.Equal(t, first.Checksum, second.Checksum)
}

func TestProcessDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func() *config.Config
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name:    "missing_file",
			setup:   func(t *testing.T, path string) {},
			wantErr: swaperr.ErrIO,
		},
		{
			name: "not_a_zip",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0644))
			},
			wantErr: swaperr.ErrContainerFormat,
		},
		{
			name: "missing_target_entry",
			cfg: func() *config.Config {
				cfg := config.Default()
				cfg.TargetEntry = "word/missing.xml"
				return cfg
			},
			setup:   func(t *testing.T, path string) { writeDocx(t, path, "cat") },
			wantErr: swaperr.ErrEntryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			var cfg *config.Config
			if tt.cfg != nil {
				cfg = tt.cfg()
			}
			op, _ := newTestOperator(t, cfg, animalPairs...)

			dir := t.TempDir()
			input := filepath.Join(dir, "doc.docx")
			tt.setup(t, input)

			res, err := op.ProcessDocument(ctx, input, text.Forward)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, res.Failed())
			assert.Equal(t, status.StatusFailed, res.Status)

			_, statErr := os.Stat(input + "_processed.docx")
			assert.True(t, os.IsNotExist(statErr), "no output should be written on failure")

			info := trackedFile(t, op, input)
			assert.Equal(t, status.StatusFailed, info.Status)
		})
	}
}

func TestProcessDocumentDictionaryError(t *testing.T) {
	ctx := testContext(t)
	md := &MockDictionary{}
	md.On("Pairs", mock.Anything).Return(nil, errors.Errorf("%w: file is not a database", swaperr.ErrStorage))

	op, err := New(Options{Config: config.Default(), Dictionary: md})
	require.NoError(t, err)

	res, err := op.ProcessDocument(ctx, "doc.docx", text.Forward)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, swaperr.ErrStorage)
}

func TestProcessMany(t *testing.T) {
	ctx := testContext(t)
	cfg := config.Default()
	cfg.Workers = 2
	cfg.IgnorePatterns = []string{"**/~$*"}
	op, _ := newTestOperator(t, cfg, animalPairs...)

	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "cat")
	writeDocx(t, filepath.Join(dir, "b.docx"), "red")
	writeDocx(t, filepath.Join(dir, "~$lock.docx"), "cat")
	writeDocx(t, filepath.Join(dir, "old.docx_processed.docx"), "cat")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.docx"), []byte("broken"), 0644))

	results, err := op.ProcessMany(ctx, []string{filepath.Join(dir, "*.docx")}, text.Forward)
	require.NoError(t, err, "per-document failures should not fail the batch")
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(dir, "a.docx"), results[0].Input)
	assert.Equal(t, filepath.Join(dir, "b.docx"), results[1].Input)
	assert.Equal(t, filepath.Join(dir, "c.docx"), results[2].Input)

	assert.False(t, results[0].Failed())
	assert.Equal(t, documentXML("dog"), documentText(t, results[0].Output))
	assert.Equal(t, documentXML("big"), documentText(t, results[1].Output))
	assert.True(t, results[2].Failed())
	assert.ErrorIs(t, results[2].Err, swaperr.ErrContainerFormat)

	_, statErr := os.Stat(filepath.Join(dir, "~$lock.docx_processed.docx"))
	assert.True(t, os.IsNotExist(statErr), "ignored documents should not be processed")
	_, statErr = os.Stat(filepath.Join(dir, "old.docx_processed.docx_processed.docx"))
	assert.True(t, os.IsNotExist(statErr), "earlier outputs should not be processed")

	files, err := op.Status().ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestProcessManyLiteralPath(t *testing.T) {
	ctx := testContext(t)
	op, _ := newTestOperator(t, nil, animalPairs...)

	input := filepath.Join(t.TempDir(), "report[1].docx")
	writeDocx(t, input, "red cat")

	results, err := op.ProcessMany(ctx, []string{input}, text.Forward)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Failed())
	assert.Equal(t, input+"_processed.docx", results[0].Output)
	assert.Equal(t, documentXML("big dog"), documentText(t, results[0].Output))
}

func TestProcessManySequential(t *testing.T) {
	ctx := testContext(t)
	cfg := config.Default()
	cfg.Workers = 1
	op, _ := newTestOperator(t, cfg, animalPairs...)

	dir := t.TempDir()
	for _, name := range []string{"x.docx", "y.docx", "z.docx"} {
		writeDocx(t, filepath.Join(dir, name), "北京")
	}

	results, err := op.ProcessMany(ctx, []string{filepath.Join(dir, "*.docx")}, text.Forward)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, documentXML("上海"), documentText(t, r.Output))
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	for _, name := range []string{"a.docx", "b.docx", "report[1].docx", "sub/c.docx", "notes.txt", "a.docx_processed.docx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	tests := []struct {
		name     string
		patterns []string
		ignore   []string
		want     []string
		wantErr  error
	}{
		{
			name:     "single_level",
			patterns: []string{filepath.Join(dir, "*.docx")},
			want:     []string{"a.docx", "b.docx", "report[1].docx"},
		},
		{
			name:     "recursive",
			patterns: []string{filepath.Join(dir, "**", "*.docx")},
			want:     []string{"a.docx", "b.docx", "report[1].docx", "sub/c.docx"},
		},
		{
			name:     "duplicates_removed",
			patterns: []string{filepath.Join(dir, "a.docx"), filepath.Join(dir, "*.docx")},
			want:     []string{"a.docx", "b.docx", "report[1].docx"},
		},
		{
			name:     "ignore_pattern",
			patterns: []string{filepath.Join(dir, "**", "*.docx")},
			ignore:   []string{"c.*", "report*"},
			want:     []string{"a.docx", "b.docx"},
		},
		{
			name:     "literal_path_with_brackets",
			patterns: []string{filepath.Join(dir, "report[1].docx")},
			want:     []string{"report[1].docx"},
		},
		{
			name:     "literal_path_kept_when_ignored",
			patterns: []string{filepath.Join(dir, "report[1].docx")},
			ignore:   []string{"report*"},
			want:     []string{"report[1].docx"},
		},
		{
			name:     "bracket_class_still_globs",
			patterns: []string{filepath.Join(dir, "[ab].docx")},
			want:     []string{"a.docx", "b.docx"},
		},
		{
			name:     "named_output_kept",
			patterns: []string{filepath.Join(dir, "a.docx_processed.docx")},
			want:     []string{"a.docx_processed.docx"},
		},
		{
			name:     "no_match",
			patterns: []string{filepath.Join(dir, "*.pdf")},
			wantErr:  swaperr.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			cfg := config.Default()
			cfg.IgnorePatterns = tt.ignore
			op, err := New(Options{Config: cfg, Dictionary: &MockDictionary{}})
			require.NoError(t, err)

			got, err := op.Expand(ctx, tt.patterns)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.Join(dir, filepath.FromSlash(w))
			}
			assert.Equal(t, want, got)
		})
	}
}
