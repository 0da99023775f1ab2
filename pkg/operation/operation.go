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

	"github.com/walteh/docswap/pkg/config"
	"github.com/walteh/docswap/pkg/dict"
	"github.com/walteh/docswap/pkg/status"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📖 Dictionary is the store the operator reads pairs from and edits
type Dictionary interface {
	Insert(ctx context.Context, find, replace string) (*dict.InsertResult, error)
	Delete(ctx context.Context, id int64) (*dict.DeleteResult, error)
	List(ctx context.Context) ([]dict.Entry, error)
	Pairs(ctx context.Context) ([]text.Pair, error)
	Repoint(ctx context.Context, location string) error
	Location() string
}

var _ Dictionary = (*dict.Store)(nil)

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the docswap configuration
	Config *config.Config
	// Dictionary is the open dictionary store
	Dictionary Dictionary
	// Files reads and writes documents, defaults to a status.Manager
	Files status.FileManager
	// Status tracks document outcomes, defaults to the same status.Manager
	Status status.StatusReporter
}

// 🎮 Operator runs docswap's use cases
type Operator struct {
	config *config.Config
	dict   Dictionary
	files  status.FileManager
	status status.StatusReporter
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (*Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Dictionary == nil {
		return nil, errors.Errorf("dictionary is required")
	}

	mgr := status.New()
	files, reporter := opts.Files, opts.Status
	if files == nil {
		files = mgr
	}
	if reporter == nil {
		reporter = mgr
	}

	return &Operator{
		config: opts.Config,
		dict:   opts.Dictionary,
		files:  files,
		status: reporter,
	}, nil
}

// Status returns the reporter tracking document outcomes
func (o *Operator) Status() status.StatusReporter {
	return o.status
}

func (o *Operator) suffix(dir text.Direction) string {
	if dir == text.Reverse {
		return o.config.Suffix.Reverse
	}
	return o.config.Suffix.Forward
}
