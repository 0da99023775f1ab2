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

	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/config"
	"github.com/walteh/docswap/pkg/dict"
	"github.com/walteh/docswap/pkg/swaperr"
	"gitlab.com/tozd/go/errors"
)

// 📥 ImportResult is the outcome of one entry of a batch import
type ImportResult struct {
	Spec   config.EntrySpec
	Result *dict.InsertResult // nil when Err is set
	Err    error
}

// ➕ AddEntry validates and stores one find/replace pair
func (o *Operator) AddEntry(ctx context.Context, find, replace string) (*dict.InsertResult, error) {
	res, err := o.dict.Insert(ctx, find, replace)
	if err != nil {
		return nil, errors.Errorf("adding %q -> %q: %w", find, replace, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("find", find).
		Str("replace", replace).
		Str("outcome", res.Outcome.String()).
		Msg("entry added")
	return res, nil
}

// 📥 ImportEntries inserts every entry in order and reports each outcome.
// Rejected entries do not stop the import; a storage failure does.
func (o *Operator) ImportEntries(ctx context.Context, specs []config.EntrySpec) ([]ImportResult, error) {
	logger := zerolog.Ctx(ctx)
	results := make([]ImportResult, 0, len(specs))

	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			return results, errors.Errorf("importing entries: %w", err)
		}

		res, err := o.dict.Insert(ctx, spec.Find, spec.Replace)
		results = append(results, ImportResult{Spec: spec, Result: res, Err: err})
		if err == nil {
			continue
		}
		if errors.Is(err, swaperr.ErrStorage) {
			return results, errors.Errorf("importing entry %d: %w", i+1, err)
		}
		logger.Debug().Err(err).Int("index", i).Str("find", spec.Find).Msg("entry rejected")
	}

	return results, nil
}

// 🔮 PreviewEntries reports what ImportEntries would do without writing. Each
// entry is checked against the stored dictionary plus the entries of the batch
// that would be added before it.
func (o *Operator) PreviewEntries(ctx context.Context, specs []config.EntrySpec) ([]ImportResult, error) {
	entries, err := o.dict.List(ctx)
	if err != nil {
		return nil, errors.Errorf("previewing entries: %w", err)
	}

	results := make([]ImportResult, 0, len(specs))
	for _, spec := range specs {
		res, err := dict.Preview(entries, spec.Find, spec.Replace, o.config.StrictReplaceOverlap)
		results = append(results, ImportResult{Spec: spec, Result: res, Err: err})
		if res.Inserted() {
			entries = append(entries, *res.Entry)
		}
	}

	zerolog.Ctx(ctx).Debug().Int("entries", len(specs)).Msg("import previewed")
	return results, nil
}

// 🗑️ DeleteEntries removes each id; ids with no entry are reported, not failed
func (o *Operator) DeleteEntries(ctx context.Context, ids []int64) ([]*dict.DeleteResult, error) {
	results := make([]*dict.DeleteResult, 0, len(ids))
	for _, id := range ids {
		res, err := o.dict.Delete(ctx, id)
		if err != nil {
			return results, errors.Errorf("deleting entry %d: %w", id, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// 📋 ListEntries returns the dictionary in insertion order
func (o *Operator) ListEntries(ctx context.Context) ([]dict.Entry, error) {
	entries, err := o.dict.List(ctx)
	if err != nil {
		return nil, errors.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// 🔀 UseDictionary switches the operator to the dictionary at location
func (o *Operator) UseDictionary(ctx context.Context, location string) error {
	if err := o.dict.Repoint(ctx, location); err != nil {
		return errors.Errorf("using dictionary %s: %w", location, err)
	}
	o.config.Dictionary = location
	zerolog.Ctx(ctx).Info().Str("dictionary", location).Msg("dictionary switched")
	return nil
}
