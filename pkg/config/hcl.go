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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// environ is read into the HCL `env` object
var environ = os.Environ

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	// Define HCL schema
	type hclConfig struct {
		Dictionary  string `hcl:"dictionary,optional"`
		TargetEntry string `hcl:"target_entry,optional"`
		Suffix      *struct {
			Forward string `hcl:"forward,optional"`
			Reverse string `hcl:"reverse,optional"`
		} `hcl:"suffix,block"`
		StrictReplaceOverlap bool     `hcl:"strict_replace_overlap,optional"`
		VerifyMarkup         bool     `hcl:"verify_markup,optional"`
		Workers              int      `hcl:"workers,optional"`
		CompressionLevel     int      `hcl:"compression_level,optional"`
		IgnorePatterns       []string `hcl:"ignore_patterns,optional"`
	}

	var hclCfg hclConfig
	if err := decodeHCL(data, "config.hcl", &hclCfg); err != nil {
		return nil, err
	}

	cfg := &Config{
		Dictionary:           hclCfg.Dictionary,
		TargetEntry:          hclCfg.TargetEntry,
		StrictReplaceOverlap: hclCfg.StrictReplaceOverlap,
		VerifyMarkup:         hclCfg.VerifyMarkup,
		Workers:              hclCfg.Workers,
		CompressionLevel:     hclCfg.CompressionLevel,
		IgnorePatterns:       hclCfg.IgnorePatterns,
	}
	if hclCfg.Suffix != nil {
		cfg.Suffix = Suffixes{
			Forward: hclCfg.Suffix.Forward,
			Reverse: hclCfg.Suffix.Reverse,
		}
	}

	return cfg, nil
}

// 📝 ParseEntries parses `entry { find = ".." replace = ".." }` blocks
func (p *HCLParser) ParseEntries(ctx context.Context, data []byte) ([]EntrySpec, error) {
	type hclEntries struct {
		Entries []struct {
			Find    string `hcl:"find"`
			Replace string `hcl:"replace"`
		} `hcl:"entry,block"`
	}

	var doc hclEntries
	if err := decodeHCL(data, "entries.hcl", &doc); err != nil {
		return nil, err
	}

	entries := make([]EntrySpec, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		entries = append(entries, EntrySpec{Find: e.Find, Replace: e.Replace})
	}
	return entries, nil
}

func decodeHCL(data []byte, filename string, v any) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), v)
	if diags.HasErrors() {
		return errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return nil
}

// evalContext exposes the process environment as `env.NAME`
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
