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

package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/docswap/cmd/docswap/opts"
	"github.com/walteh/docswap/pkg/config"
	"github.com/walteh/docswap/pkg/container"
	"github.com/walteh/docswap/pkg/log"
	"github.com/walteh/docswap/pkg/operation"
	"github.com/walteh/docswap/pkg/status"
	"github.com/walteh/docswap/pkg/swaperr"
	"github.com/walteh/docswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func direction(reverse bool) text.Direction {
	if reverse {
		return text.Reverse
	}
	return text.Forward
}

func NewProcessCmd(opts *opts.RootOpts) *cobra.Command {
	var reverse, files bool

	cmd := &cobra.Command{
		Use:   "process <glob>...",
		Short: "Rewrite documents with the dictionary",
		Long: `Process rewrites the body of every matching .docx document and writes
<input>_processed.docx (or <input>_reversed.docx with --reverse) beside it.
Every other part of the document is copied unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)
			dir := direction(reverse)

			results, err := opts.Operator.ProcessMany(ctx, args, dir)
			if err != nil {
				return err
			}

			console.Header(fmt.Sprintf("%s %d documents", dir, len(results)))
			console.StartBatch(ctx, log.BatchOperation{
				Dictionary: opts.Store.Location(),
				Direction:  dir.String(),
				Documents:  len(results),
			})

			var firstErr error
			for _, r := range results {
				op := log.DocumentOperation{
					Path:         r.Input,
					Output:       r.Output,
					Direction:    dir.String(),
					Replacements: r.Replacements,
					Changed:      r.Changed,
					Failed:       r.Failed(),
				}
				if r.Failed() {
					op.Kind = swaperr.Kind(r.Err)
					if firstErr == nil {
						firstErr = r.Err
					}
				}
				console.LogDocumentOperation(ctx, op)
			}

			summary := console.EndBatch(ctx)
			console.LogNewline()

			if files {
				if err := reportFiles(cmd, opts); err != nil {
					return err
				}
			}
			if summary.Failed > 0 {
				return errors.Errorf("%d of %d documents failed: %w", summary.Failed, summary.Documents, firstErr)
			}
			console.Successf("%d documents written, %d replacements", summary.Documents, summary.Replacements)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "replace the replace side with the find side")
	cmd.Flags().BoolVar(&files, "files", false, "list every output file with its write status")
	return cmd
}

// reportFiles prints the write status of every document the operator tracked
func reportFiles(cmd *cobra.Command, opts *opts.RootOpts) error {
	tracked, err := opts.Operator.Status().ListFiles(cmd.Context())
	if err != nil {
		return errors.Errorf("listing documents: %w", err)
	}
	for _, info := range tracked {
		opts.UserLogger.LogFileChange(info)
	}
	return nil
}

func NewReplaceCmd(opts *opts.RootOpts) *cobra.Command {
	var textOpts operation.TextOptions
	var reverse bool

	cmd := &cobra.Command{
		Use:   "replace [text]",
		Short: "Run the dictionary over text from the argument or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			textOpts.Direction = direction(reverse)
			res, err := opts.Operator.ReplaceText(cmd.Context(), input, textOpts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "replace the replace side with the find side")
	cmd.Flags().BoolVar(&textOpts.Unicode, "unicode", false, `print non-ASCII characters as \uXXXX escapes`)
	cmd.Flags().BoolVar(&textOpts.FromUnicode, "from-unicode", false, `decode \uXXXX escapes in the input first`)
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", swaperr.Wrap(swaperr.ErrIO, err, "reading stdin")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func NewInspectCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <file>",
		Short:       "List the entries of a document container",
		Args:        cobra.ExactArgs(1),
		Annotations: NoDictionary,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := status.New().ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			entries, err := container.Inspect(data)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Name,
					e.MethodName(),
					fmt.Sprintf("%d", e.CompressedSize),
					fmt.Sprintf("%d", e.UncompressedSize),
					fmt.Sprintf("%08x", e.CRC32),
				})
			}

			opts.UserLogger.LogStateChange(fmt.Sprintf("%s (%d entries)", args[0], len(entries)))
			return opts.UserLogger.LogTable([]string{"NAME", "METHOD", "COMPRESSED", "SIZE", "CRC32"}, rows)
		},
	}
}

func loadEntries(ctx context.Context, path string) ([]config.EntrySpec, error) {
	specs, err := config.LoadEntries(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, swaperr.Wrap(swaperr.ErrIO, err, "reading entries")
		}
		return nil, err
	}
	return specs, nil
}
