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
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger  *zerolog.Logger
	workers int
}

// 🏗️ NewRunner creates a new runner running at most workers operations at once
func NewRunner(logger *zerolog.Logger, workers int) *OperationRunner {
	if workers < 1 {
		workers = 1
	}
	return &OperationRunner{
		logger:  logger,
		workers: workers,
	}
}

// 🏃 Run executes the operations and returns the first error
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	if r.workers == 1 || len(ops) <= 1 {
		return r.runSync(ctx, ops)
	}
	return r.runAsync(ctx, ops)
}

// 🔄 runSync runs operations one after another
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
	}
	return nil
}

// ⚡ runAsync runs operations on a bounded pool
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation) error {
	r.logger.Debug().Int("operations", len(ops)).Int("workers", r.workers).Msg("running operations")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, op := range ops {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			if err := op.Execute(gctx); err != nil {
				return errors.Errorf("executing operation: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
