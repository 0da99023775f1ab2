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
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about documents and entries
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎨 EntryChangeType represents what happened to a dictionary entry
type EntryChangeType int

const (
	EntryAdded EntryChangeType = iota
	EntrySkipped
	EntryDeleted
	EntryMissing
	EntryRejected
)

// 🖼️ EntryChange is one dictionary change to report
type EntryChange struct {
	Type        EntryChangeType
	Description string
	Error       error
}

// 🎯 NewUserLogger creates a new user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 📝 LogFileChange logs a document outcome
func (u *UserLogger) LogFileChange(info FileInfo) {
	name := filepath.Base(info.Path)

	var action string
	var printer *pterm.PrefixPrinter
	switch info.Status {
	case StatusNew:
		action = "Created"
		printer = u.printer(pterm.Success, "✨")
	case StatusModified:
		action = "Updated"
		printer = u.printer(pterm.Info, "🔄")
	case StatusUnchanged:
		action = "Unchanged"
		printer = u.printer(pterm.Info, "👍")
	default:
		action = "Failed"
		printer = u.printer(pterm.Error, "❌")
	}

	msg := fmt.Sprintf("%s %s", action, name)
	if info.Output != "" {
		msg += fmt.Sprintf(" -> %s (%s)", filepath.Base(info.Output), plural(info.Replacements))
	}

	printer.Println(msg)
	if info.Error != nil {
		u.printer(pterm.Error, "  ").Println(info.Error)
		u.log.Error().Err(info.Error).Msg(msg)
		return
	}
	u.log.Info().Msg(msg)
}

// 📝 LogEntryChange logs a dictionary change
func (u *UserLogger) LogEntryChange(change EntryChange) {
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case EntryAdded:
		printer = u.printer(pterm.Success, "➕")
	case EntrySkipped:
		printer = u.printer(pterm.Warning, "⏭️")
	case EntryDeleted:
		printer = u.printer(pterm.Success, "🗑️")
	case EntryMissing:
		printer = u.printer(pterm.Info, "🤷")
	default:
		printer = u.printer(pterm.Error, "⛔")
	}

	printer.Println(change.Description)
	if change.Error != nil {
		u.printer(pterm.Error, "  ").Println(change.Error)
		u.log.Error().Err(change.Error).Msg(change.Description)
		return
	}
	u.log.Info().Msg(change.Description)
}

// 📊 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

// 📋 LogTable renders rows under header as a table
func (u *UserLogger) LogTable(header []string, rows [][]string) error {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)

	u.log.Debug().Int("rows", len(rows)).Msg("rendering table")
	return pterm.DefaultTable.
		WithHasHeader().
		WithData(data).
		WithWriter(u.out).
		Render()
}
