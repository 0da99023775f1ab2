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

	"github.com/klauspost/compress/zip"
	"github.com/walteh/docswap/pkg/swaperr"
)

// 📄 EntryInfo summarises one archive entry
type EntryInfo struct {
	Name             string `json:"name"`
	Method           uint16 `json:"method"`
	CompressedSize   uint64 `json:"compressed_size"`
	UncompressedSize uint64 `json:"uncompressed_size"`
	CRC32            uint32 `json:"crc32"`
}

// MethodName returns a readable name for the entry's compression method
func (e EntryInfo) MethodName() string {
	switch e.Method {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	default:
		return "other"
	}
}

// Inspect lists the entries of the archive in data, in archive order
func Inspect(data []byte) ([]EntryInfo, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, swaperr.Wrap(swaperr.ErrContainerFormat, err, "opening archive")
	}

	infos := make([]EntryInfo, 0, len(zr.File))
	for _, f := range zr.File {
		infos = append(infos, EntryInfo{
			Name:             f.Name,
			Method:           f.Method,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			CRC32:            f.CRC32,
		})
	}
	return infos, nil
}
