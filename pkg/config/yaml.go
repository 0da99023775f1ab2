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
	"bytes"
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the config from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	if err := decodeYAML(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// 📝 ParseEntries parses an entries document from YAML
func (p *YAMLParser) ParseEntries(ctx context.Context, data []byte) ([]EntrySpec, error) {
	var doc struct {
		Entries []EntrySpec `yaml:"entries"`
	}
	if err := decodeYAML(data, &doc); err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

func decodeYAML(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		// an empty document decodes to the zero value
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Errorf("parsing YAML: %w", err)
	}
	return nil
}
