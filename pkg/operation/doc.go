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

/*
Package operation implements docswap's use cases on top of the dictionary,
the container rewriter and the output manager.

	+-------------+
	|  Operation  |
	| (Use Cases) |
	+------+------+
	       |
	+------+------+------+
	|             |      |
	dict      container  status
	(pairs)   (rewrite)  (outputs)

🎯 Purpose:
- Adds, imports, deletes and lists dictionary entries
- Rewrites documents forward or in reverse and writes the outputs
- Expands globs into document batches and runs them on a bounded worker pool
- Replaces plain text, optionally through unicode escapes

🔄 Flow:
1. Take a snapshot of the dictionary pairs
2. Read each document through the status manager
3. Rewrite the target entry with the container package
4. Write `<input><suffix>.docx` atomically and track its status

🔍 Example:

	op, err := operation.New(operation.Options{Config: cfg, Dictionary: store})
	results, err := op.ProcessMany(ctx, []string{"docs/*.docx"}, text.Forward)
*/
package operation
