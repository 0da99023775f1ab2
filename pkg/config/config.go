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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultFile        = ".docswap.yaml"
	DefaultDictionary  = "replacements.db"
	DefaultTarget      = "word/document.xml"
	DefaultForward     = "_processed"
	DefaultReverse     = "_reversed"
	DefaultWorkers     = 4
	memoryDictionary   = ":memory:"
	maxSuffixRuneCount = 64
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 📝 ParseEntries parses a batch entry file from bytes
	ParseEntries(ctx context.Context, data []byte) ([]EntrySpec, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🏷️ Suffixes are appended to a document's path to name its output
type Suffixes struct {
	Forward string `json:"forward,omitempty" yaml:"forward,omitempty"`
	Reverse string `json:"reverse,omitempty" yaml:"reverse,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Dictionary           string   `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
	TargetEntry          string   `json:"target_entry,omitempty" yaml:"target_entry,omitempty"`
	Suffix               Suffixes `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	StrictReplaceOverlap bool     `json:"strict_replace_overlap,omitempty" yaml:"strict_replace_overlap,omitempty"`
	VerifyMarkup         bool     `json:"verify_markup,omitempty" yaml:"verify_markup,omitempty"`
	Workers              int      `json:"workers,omitempty" yaml:"workers,omitempty"`
	CompressionLevel     int      `json:"compression_level,omitempty" yaml:"compression_level,omitempty"`
	IgnorePatterns       []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
}

// 🔄 EntrySpec is one find/replace pair from a batch file
type EntrySpec struct {
	Find    string `json:"find" yaml:"find"`
	Replace string `json:"replace" yaml:"replace"`
}

// Default returns a validated config with every default filled in
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.resolveDictionary(filepath.Dir(path))
	return cfg, nil
}

// 📥 LoadEntries loads a batch file of find/replace entries
func LoadEntries(ctx context.Context, path string) ([]EntrySpec, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading entries")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading entries file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	entries, err := p.ParseEntries(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing entries: %w", err)
	}
	return entries, nil
}

// 🔍 Validate fills defaults and checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Dictionary == "" {
		cfg.Dictionary = DefaultDictionary
	}
	if cfg.TargetEntry == "" {
		cfg.TargetEntry = DefaultTarget
	}
	if cfg.Suffix.Forward == "" {
		cfg.Suffix.Forward = DefaultForward
	}
	if cfg.Suffix.Reverse == "" {
		cfg.Suffix.Reverse = DefaultReverse
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	// zero keeps the deflate default
	if cfg.CompressionLevel < flate.HuffmanOnly || cfg.CompressionLevel > flate.BestCompression {
		return errors.Errorf("compression_level must be between %d and %d, got %d", flate.HuffmanOnly, flate.BestCompression, cfg.CompressionLevel)
	}
	if cfg.Suffix.Forward == cfg.Suffix.Reverse {
		return errors.Errorf("suffix.forward and suffix.reverse must differ, both are %q", cfg.Suffix.Forward)
	}
	for _, s := range []string{cfg.Suffix.Forward, cfg.Suffix.Reverse} {
		if strings.ContainsAny(s, `/\`) {
			return errors.Errorf("suffix %q must not contain a path separator", s)
		}
		if len([]rune(s)) > maxSuffixRuneCount {
			return errors.Errorf("suffix %q is longer than %d characters", s, maxSuffixRuneCount)
		}
	}
	if strings.HasPrefix(cfg.TargetEntry, "/") {
		return errors.Errorf("target_entry %q must be relative to the archive root", cfg.TargetEntry)
	}
	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore pattern %q is invalid", pattern)
		}
	}
	return nil
}

// resolveDictionary anchors a relative dictionary path at dir
func (cfg *Config) resolveDictionary(dir string) {
	if cfg.Dictionary == memoryDictionary || filepath.IsAbs(cfg.Dictionary) {
		return
	}
	cfg.Dictionary = filepath.Clean(filepath.Join(dir, cfg.Dictionary))
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s [%s] %s/%s", cfg.Dictionary, cfg.TargetEntry, cfg.Suffix.Forward, cfg.Suffix.Reverse)
}
