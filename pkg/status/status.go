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

package status

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"
)

// DocumentExt is the extension appended to every output name
const DocumentExt = ".docx"

var (
	readFile  = os.ReadFile
	writeFile = os.WriteFile
	rename    = os.Rename
	tempID    = uuid.NewString
)

// 📊 FileStatus represents what a write did to an output file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // output did not exist
	StatusModified             // output existed with different content
	StatusUnchanged            // output existed with identical content
	StatusFailed               // document could not be processed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a processed document
type FileInfo struct {
	Path         string     // input document
	Output       string     // written document
	Status       FileStatus // current status
	Size         int64      // output size in bytes
	Checksum     string     // blake3 of the output
	Replacements int        // substitutions made in the target entry
	Error        error      // failure, when Status is StatusFailed
}

// 💾 FileManager handles document reads and writes
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) (FileInfo, error)
}

// 📈 StatusReporter tracks document status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, path string, info FileInfo)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	formatter FileFormatter

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager
func New() *Manager {
	return &Manager{
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// 🏷️ OutputPath names the output for input: `<input><suffix>.docx`
func OutputPath(input, suffix string) (string, error) {
	if suffix == "" {
		return "", errors.Errorf("%w: empty output suffix for %s", swaperr.ErrIO, input)
	}
	output := input + suffix + DocumentExt
	if filepath.Clean(output) == filepath.Clean(input) {
		return "", errors.Errorf("%w: output would overwrite input %s", swaperr.ErrIO, input)
	}
	return output, nil
}

// 🔍 IsOutput reports whether path looks like an output for one of the suffixes
func IsOutput(path string, suffixes ...string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(path, s+DocumentExt) {
			return true
		}
	}
	return false
}

// 🔍 Checksum returns the hex blake3 digest of content
func Checksum(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrIO, err, "reading "+path)
	}
	return content, nil
}

// WriteFileAtomic writes content beside path under a temp name and renames it
// into place, so readers never see a partial document.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) (FileInfo, error) {
	info := FileInfo{
		Output:   path,
		Size:     int64(len(content)),
		Checksum: Checksum(content),
		Status:   StatusNew,
	}

	if existing, err := readFile(path); err == nil {
		info.Status = StatusModified
		if Checksum(existing) == info.Checksum {
			info.Status = StatusUnchanged
		}
	} else if !os.IsNotExist(err) {
		return FileInfo{}, swaperr.Wrap(swaperr.ErrIO, err, "checking "+path)
	}

	dir, base := filepath.Split(path)
	tempPath := filepath.Join(dir, "."+base+"."+tempID()+".tmp")

	if err := writeFile(tempPath, content, 0644); err != nil {
		_ = os.Remove(tempPath)
		return FileInfo{}, swaperr.Wrap(swaperr.ErrIO, err, "writing temp file")
	}

	if err := rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return FileInfo{}, swaperr.Wrap(swaperr.ErrIO, err, "renaming temp file")
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("status", info.Status.String()).
		Str("checksum", info.Checksum).
		Msg("wrote document")

	return info, nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info.Path = path
	m.files[path] = info

	msg := m.formatter.FormatFileOperation(path, info.Status, info.Replacements)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg(msg)
}

// ListFiles returns every tracked document sorted by path
func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Info().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = m.total
	zerolog.Ctx(ctx).Info().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.total, m.total))
}
