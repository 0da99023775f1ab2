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
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/walteh/docswap/cmd/docswap/opts"
	"github.com/walteh/docswap/pkg/dict"
	"github.com/walteh/docswap/pkg/log"
	"github.com/walteh/docswap/pkg/operation"
	"github.com/walteh/docswap/pkg/status"
	"github.com/walteh/docswap/pkg/swaperr"
	"gitlab.com/tozd/go/errors"
)

const dictionaryAnnotation = "docswap/dictionary"

// NoDictionary marks a command that runs without opening a dictionary
var NoDictionary = map[string]string{dictionaryAnnotation: "none"}

// NeedsDictionary reports whether cmd needs the dictionary opened
func NeedsDictionary(cmd *cobra.Command) bool {
	return cmd.Annotations[dictionaryAnnotation] != "none"
}

func NewAddCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "add <find> <replace>",
		Short: "Add a find/replace pair to the dictionary",
		Long: `Add stores a pair after checking it against the whole dictionary:
both sides must have the same number of characters, and the find side may not
contain, or be contained in, any stored find. A replace side that overlaps a
stored replace is reported and not stored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.Operator.AddEntry(cmd.Context(), args[0], args[1])
			if err != nil {
				opts.UserLogger.LogEntryChange(status.EntryChange{
					Type:        status.EntryRejected,
					Description: fmt.Sprintf("%q -> %q rejected (%s)", args[0], args[1], swaperr.Kind(err)),
				})
				return err
			}

			if !res.Inserted() {
				opts.UserLogger.LogEntryChange(status.EntryChange{
					Type:        status.EntrySkipped,
					Description: res.Message,
				})
				return nil
			}

			opts.UserLogger.LogEntryChange(status.EntryChange{
				Type:        status.EntryAdded,
				Description: "added " + res.Entry.String(),
			})
			return nil
		},
	}
}

func NewImportCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add every pair listed in a YAML, JSON or HCL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			specs, err := loadEntries(ctx, args[0])
			if err != nil {
				return err
			}

			var results []operation.ImportResult
			if dryRun {
				results, err = opts.Operator.PreviewEntries(ctx, specs)
			} else {
				results, err = opts.Operator.ImportEntries(ctx, specs)
			}

			added, skipped, rejected := 0, 0, 0
			for _, r := range results {
				entry := log.EntryOperation{Find: r.Spec.Find, Replace: r.Spec.Replace}
				switch {
				case r.Err != nil:
					entry.Action = "rejected"
					rejected++
				case r.Result.Inserted():
					entry.Action = "added"
					entry.ID = r.Result.Entry.ID
					added++
				default:
					entry.Action = "skipped"
					skipped++
				}
				console.LogEntryOperation(ctx, entry)
			}
			if err != nil {
				return err
			}

			console.LogNewline()
			if dryRun {
				console.Infof("dry run: %d would be added, %d skipped, %d rejected", added, skipped, rejected)
				return nil
			}
			if rejected > 0 {
				console.Warningf("%d added, %d skipped, %d rejected", added, skipped, rejected)
				return nil
			}
			console.Successf("%d added, %d skipped", added, skipped)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "check every pair against the dictionary without storing anything")
	return cmd
}

func NewDeleteCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Remove entries by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return errors.Errorf("invalid id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}

			results, err := opts.Operator.DeleteEntries(cmd.Context(), ids)
			for _, r := range results {
				change := status.EntryChange{Type: status.EntryDeleted, Description: fmt.Sprintf("#%d %s", r.ID, r.Message)}
				if !r.Removed {
					change.Type = status.EntryMissing
				}
				opts.UserLogger.LogEntryChange(change)
			}
			return err
		},
	}
}

func NewListCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.Operator.ListEntries(cmd.Context())
			if err != nil {
				return err
			}
			return renderEntries(opts, entries)
		},
	}
}

func NewUseCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "use <path>",
		Short: "Switch to another dictionary file, creating it when absent",
		Long: `Use points the session at another dictionary. An absent or empty file is
initialised with a fresh schema; an existing file is opened as-is. The switch
lasts for this invocation only; pass --dict to other commands to keep using it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := opts.Operator.UseDictionary(ctx, args[0]); err != nil {
				return err
			}
			entries, err := opts.Operator.ListEntries(ctx)
			if err != nil {
				return err
			}
			return renderEntries(opts, entries)
		},
	}
}

func renderEntries(opts *opts.RootOpts, entries []dict.Entry) error {
	opts.UserLogger.LogStateChange(fmt.Sprintf("dictionary %s (%d entries)", opts.Store.Location(), len(entries)))
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Find, e.Replace})
	}
	return opts.UserLogger.LogTable([]string{"ID", "FIND", "REPLACE"}, rows)
}
