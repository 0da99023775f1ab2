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

package container

import (
	"bytes"

	"github.com/antchfx/xmlquery"
	"gitlab.com/tozd/go/errors"
)

// verifyMarkup checks that content is still a well formed XML document
func verifyMarkup(content []byte) error {
	doc, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return errors.Errorf("parsing markup: %w", err)
	}
	if doc.FirstChild == nil {
		return errors.New("parsing markup: document is empty")
	}
	return nil
}
