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
Package config loads docswap settings and batch entry files.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Locates the dictionary file and the document entry to rewrite
- Names the output files written next to each processed document
- Parses batch files of find/replace entries for import

🔄 Flow:
1. Reads the file
2. Picks a parser by extension
3. Fills defaults and validates
4. Resolves the dictionary path against the config file's directory

🔍 Example:

	cfg, err := config.Load(ctx, ".docswap.yaml")
	if err != nil {
		return err
	}
	store, err := dict.Open(ctx, cfg.Dictionary)
*/
package config
