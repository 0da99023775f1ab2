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

// Package log prints document and dictionary operations to the console and
// mirrors every line into zerolog.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	lineIndent   = 4  // spaces to indent operation lines
	nameWidth    = 35 // width for document paths and entry pairs
	dirWidth     = 10 // width for the direction column
	outcomeWidth = 15 // width for the outcome column
)

// 📄 DocumentOperation is one document rewrite for logging
type DocumentOperation struct {
	Path         string // input document
	Output       string // written document, empty on failure
	Direction    string // forward or reverse
	Replacements int    // number of substitutions made
	Changed      bool   // whether the target entry changed
	Failed       bool   // whether the rewrite failed
	Kind         string // error kind when failed
}

// 📖 EntryOperation is one dictionary change for logging
type EntryOperation struct {
	Action  string // added, deleted, missing, skipped or rejected
	ID      int64
	Find    string
	Replace string
}

// 📦 BatchOperation describes a group of document rewrites
type BatchOperation struct {
	Dictionary string
	Direction  string
	Documents  int
}

// 📊 Summary totals a finished batch
type Summary struct {
	Documents    int
	Changed      int
	Failed       int
	Replacements int
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   *BatchOperation
	summary Summary
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) formatDocumentOperation(op DocumentOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	outcome := fmt.Sprintf("%d replaced", op.Replacements)
	switch {
	case op.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
		outcome = "failed"
		if op.Kind != "" {
			outcome = op.Kind
		}
	case op.Changed:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	dirColor := color.FgGreen
	if op.Direction == "reverse" {
		dirColor = color.FgMagenta
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", lineIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(dirColor).Sprint(fmt.Sprintf("%-*s", dirWidth, op.Direction)),
		fmt.Sprintf("%-*s", outcomeWidth, outcome))
}

func (l *Logger) formatEntryOperation(op EntryOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Action {
	case "added":
		symbol = '✓'
		symbolColor = color.FgGreen
	case "deleted":
		symbol = '✗'
		symbolColor = color.FgRed
	case "rejected":
		symbol = '!'
		symbolColor = color.FgRed
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	pair := fmt.Sprintf("%q -> %q", op.Find, op.Replace)
	if op.Find == "" && op.Replace == "" {
		pair = fmt.Sprintf("#%d", op.ID)
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", lineIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, pair),
		fmt.Sprintf("%-*s", outcomeWidth, op.Action))
}

// 📝 LogDocumentOperation logs a document rewrite
func (l *Logger) LogDocumentOperation(ctx context.Context, op DocumentOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch != nil {
		l.summary.Documents++
		l.summary.Replacements += op.Replacements
		if op.Failed {
			l.summary.Failed++
		} else if op.Changed {
			l.summary.Changed++
		}
	}

	fmt.Fprintln(l.console, l.formatDocumentOperation(op))

	l.zlog.Info().
		Str("document", op.Path).
		Str("output", op.Output).
		Str("direction", op.Direction).
		Int("replacements", op.Replacements).
		Bool("changed", op.Changed).
		Bool("failed", op.Failed).
		Str("kind", op.Kind).
		Msg("document operation")
}

// 📝 LogEntryOperation logs a dictionary change
func (l *Logger) LogEntryOperation(ctx context.Context, op EntryOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatEntryOperation(op))

	l.zlog.Info().
		Str("action", op.Action).
		Int64("id", op.ID).
		Str("find", op.Find).
		Str("replace", op.Replace).
		Msg("entry operation")
}

// 📝 StartBatch starts a group of document rewrites
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = &op
	l.summary = Summary{}

	fmt.Fprintf(l.console, "[processing %s]\n",
		color.New(color.FgCyan).Sprint(op.Dictionary))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Direction),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d documents", op.Documents))

	l.zlog.Info().
		Str("dictionary", op.Dictionary).
		Str("direction", op.Direction).
		Int("documents", op.Documents).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and returns its totals
func (l *Logger) EndBatch(ctx context.Context) Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch == nil {
		return Summary{}
	}

	summary := l.summary
	l.zlog.Info().
		Str("dictionary", l.batch.Dictionary).
		Int("documents", summary.Documents).
		Int("changed", summary.Changed).
		Int("failed", summary.Failed).
		Int("replacements", summary.Replacements).
		Msg("batch complete")

	l.batch = nil
	l.summary = Summary{}
	return summary
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("docswap")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
