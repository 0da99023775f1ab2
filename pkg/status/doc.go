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
Package status manages document output files and per-document status for docswap.

	            +-------------+
	            |   Status    |
	            |  (Outputs)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           |  Users   |
	|  (atomic) |           | (pterm)  |
	+-----------+           +----------+

🎯 Purpose:
- Reads input documents and writes rewritten ones atomically
- Names outputs beside their inputs with a direction suffix
- Tracks what happened to each document (new, modified, unchanged, failed)
- Reports outcomes and dictionary listings to the user

🔄 Flow:
1. Operation reads an input document through the Manager
2. The rewritten bytes are written to a uuid-named temp file, then renamed
3. A blake3 checksum of the written bytes decides new / modified / unchanged
4. The UserLogger prints the outcome

🤝 Interfaces:
- FileManager: reads and atomic writes
- StatusReporter: tracks documents and progress
- FileFormatter: formats status messages
*/
package status
