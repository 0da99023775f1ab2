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

package opts

import (
	"github.com/walteh/docswap/pkg/config"
	"github.com/walteh/docswap/pkg/dict"
	"github.com/walteh/docswap/pkg/log"
	"github.com/walteh/docswap/pkg/operation"
	"github.com/walteh/docswap/pkg/status"
)

// RootOpts is shared by every command, filled in before the command runs
type RootOpts struct {
	Config     *config.Config
	Store      *dict.Store
	Operator   *operation.Operator
	Console    *log.Logger
	UserLogger *status.UserLogger
}

// Close releases the dictionary, if one was opened
func (o *RootOpts) Close() error {
	if o.Store == nil {
		return nil
	}
	err := o.Store.Close()
	o.Store = nil
	return err
}
