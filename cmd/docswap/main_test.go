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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/klauspost/compress/zip"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/docswap/pkg/swaperr"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 🧪 run executes the command line against dict and returns its output
func run(t *testing.T, dict string, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var out bytes.Buffer
	if dict != "" {
		args = append([]string{"--dict", dict}, args...)
	}
	err := execute(testContext(t), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func writeDocx(t *testing.T, path, body string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range []struct{ name, data string }{
		{"[Content_Types].xml", `<Types/>`},
		{"word/document.xml", `<w:document><w:body>` + body + `</w:body></w:document>`},
	} {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func bodyOf(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			var b bytes.Buffer
			_, err = b.ReadFrom(rc)
			require.NoError(t, err)
			return b.String()
		}
	}
	t.Fatalf("no document entry in %s", path)
	return ""
}

func TestDictionaryCommands(t *testing.T) {
	dict := filepath.Join(t.TempDir(), "words.db")

	out, err := run(t, dict, "", "add", "cat", "dog")
	require.NoError(t, err)
	assert.Contains(t, out, `added #1 "cat" -> "dog"`)

	out, err = run(t, dict, "", "add", "北京", "上海")
	require.NoError(t, err)
	assert.Contains(t, out, `added #2`)

	out, err = run(t, dict, "", "add", "pig", "dog")
	require.NoError(t, err, "a replace-side overlap is reported, not failed")
	assert.Contains(t, out, "not added")

	_, err = run(t, dict, "", "add", "cow", "bull")
	require.Error(t, err)
	assert.ErrorIs(t, err, swaperr.ErrLengthMismatch)

	_, err = run(t, dict, "", "add", "ca", "xy")
	require.Error(t, err)
	assert.ErrorIs(t, err, swaperr.ErrOverlapViolation)
	assert.Equal(t, "OverlapViolation", swaperr.Kind(err))

	out, err = run(t, dict, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "cat")
	assert.Contains(t, out, "上海")
	assert.NotContains(t, out, "pig")

	out, err = run(t, dict, "", "delete", "1", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 deleted")
	assert.Contains(t, out, "#99 nothing to delete")

	_, err = run(t, dict, "", "delete", "one")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")

	out, err = run(t, dict, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries")
	assert.NotContains(t, out, "cat")
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "words.db")
	entries := filepath.Join(dir, "entries.yaml")
	require.NoError(t, os.WriteFile(entries, []byte(`
entries:
  - find: cat
    replace: dog
  - find: ca
    replace: xy
  - find: hot
    replace: dog
  - find: red
    replace: big
`), 0644))

	out, err := run(t, dict, "", "import", entries)
	require.NoError(t, err)
	assert.Contains(t, out, "2 added, 1 skipped, 1 rejected")

	_, err = run(t, dict, "", "import", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, swaperr.ErrIO)
}

func TestImportCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "words.db")
	_, err := run(t, dict, "", "add", "cat", "dog")
	require.NoError(t, err)

	entries := filepath.Join(dir, "entries.json")
	require.NoError(t, os.WriteFile(entries, []byte(`{"entries": [
		{"find": "sun", "replace": "sky"},
		{"find": "ca", "replace": "xy"},
		{"find": "hot", "replace": "dog"}
	]}`), 0644))

	out, err := run(t, dict, "", "import", "--dry-run", entries)
	require.NoError(t, err)
	assert.Contains(t, out, "dry run: 1 would be added, 1 skipped, 1 rejected")

	out, err = run(t, dict, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 entries)", "a dry run must not store anything")
}

func TestUseCommand(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "other.db")

	out, err := run(t, filepath.Join(dir, "words.db"), "", "use", other)
	require.NoError(t, err)
	assert.Contains(t, out, "other.db (0 entries)")

	_, statErr := os.Stat(other)
	assert.NoError(t, statErr, "the new dictionary should be created")
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "words.db")
	_, err := run(t, dict, "", "add", "cat", "dog")
	require.NoError(t, err)

	input := filepath.Join(dir, "a.docx")
	writeDocx(t, input, "the cat")

	out, err := run(t, dict, "", "process", filepath.Join(dir, "*.docx"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 documents written, 1 replacements")
	assert.Contains(t, bodyOf(t, input+"_processed.docx"), "the dog")

	out, err = run(t, dict, "", "process", "--reverse", input+"_processed.docx")
	require.NoError(t, err)
	assert.Contains(t, out, "reverse")
	assert.Contains(t, bodyOf(t, input+"_processed.docx_reversed.docx"), "the cat")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.docx"), []byte("nope"), 0644))
	out, err = run(t, dict, "", "process", filepath.Join(dir, "broken.docx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, swaperr.ErrContainerFormat)
	assert.Contains(t, out, "ContainerFormatError")

	_, err = run(t, dict, "", "process", filepath.Join(dir, "*.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, swaperr.ErrIO)
}

func TestProcessCommandFiles(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "words.db")
	_, err := run(t, dict, "", "add", "cat", "dog")
	require.NoError(t, err)

	input := filepath.Join(dir, "report[1].docx")
	writeDocx(t, input, "the cat")

	out, err := run(t, dict, "", "process", "--files", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Created report[1].docx -> report[1].docx_processed.docx (1 replacement)")

	out, err = run(t, dict, "", "process", "--files", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Unchanged report[1].docx")
}

func TestProcessCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docswap.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
dictionary: words.db
suffix:
  forward: _out
workers: 1
`), 0644))

	_, err := run(t, "", "", "--config", cfgPath, "add", "red", "big")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "words.db"))
	require.NoError(t, statErr, "dictionary should live beside the config")

	input := filepath.Join(dir, "b.docx")
	writeDocx(t, input, "red")

	_, err = run(t, "", "", "--config", cfgPath, "process", input)
	require.NoError(t, err)
	assert.Contains(t, bodyOf(t, input+"_out.docx"), "big")

	_, err = run(t, "", "", "--config", filepath.Join(dir, "missing.yaml"), "list")
	require.Error(t, err, "an explicit config must exist")
}

func TestReplaceCommand(t *testing.T) {
	dict := filepath.Join(t.TempDir(), "words.db")
	_, err := run(t, dict, "", "add", "北京", "上海")
	require.NoError(t, err)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "argument", args: []string{"replace", "hi 北京"}, want: "hi 上海"},
		{name: "stdin", stdin: "hi 北京\n", args: []string{"replace"}, want: "hi 上海"},
		{name: "reverse", args: []string{"replace", "-r", "hi 上海"}, want: "hi 北京"},
		{name: "unicode_output", args: []string{"replace", "--unicode", "北京"}, want: `\u4e0a\u6d77`},
		{name: "from_unicode_reverse", args: []string{"replace", "--from-unicode", "--reverse", `\u4e0a\u6d77`}, want: "北京"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, dict, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "never.db")
	input := filepath.Join(dir, "a.docx")
	writeDocx(t, input, "x")

	out, err := run(t, dict, "", "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "word/document.xml")
	assert.Contains(t, out, "deflate")

	_, statErr := os.Stat(dict)
	assert.True(t, os.IsNotExist(statErr), "inspect should not open a dictionary")

	_, err = run(t, dict, "", "inspect", filepath.Join(dir, "missing.docx"))
	assert.ErrorIs(t, err, swaperr.ErrIO)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docswap version info")
	assert.Contains(t, out, "SQLite:")
}
