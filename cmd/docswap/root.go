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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/docswap/cmd/docswap/commands"
	"github.com/walteh/docswap/cmd/docswap/opts"
	"github.com/walteh/docswap/pkg/config"
	"github.com/walteh/docswap/pkg/dict"
	"github.com/walteh/docswap/pkg/log"
	"github.com/walteh/docswap/pkg/operation"
	"github.com/walteh/docswap/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	dictPath   string
	debug      bool
)

// execute runs the command line in args and releases the dictionary afterwards
func execute(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	rootOpts := &opts.RootOpts{}
	defer func() {
		if err := rootOpts.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("closing dictionary")
		}
	}()

	rootCmd := newRootCmd(rootOpts)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docswap",
		Short: "Swap words in Word documents using a replacement dictionary",
		Long: `docswap keeps a dictionary of find/replace pairs of equal length and applies it
to the body of .docx documents, forward or in reverse, writing the result beside
the input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadRootOpts(cmd, rootOpts)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewAddCmd(rootOpts),
		commands.NewImportCmd(rootOpts),
		commands.NewDeleteCmd(rootOpts),
		commands.NewListCmd(rootOpts),
		commands.NewUseCmd(rootOpts),
		commands.NewProcessCmd(rootOpts),
		commands.NewReplaceCmd(rootOpts),
		commands.NewInspectCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().StringVar(&dictPath, "dict", "", "dictionary file, overrides the config")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// loadRootOpts fills rootOpts for the command about to run
func loadRootOpts(cmd *cobra.Command, rootOpts *opts.RootOpts) error {
	ctx := cmd.Context()
	if debug {
		ctx = zerolog.Ctx(ctx).Level(zerolog.DebugLevel).WithContext(ctx)
		cmd.SetContext(ctx)
	}

	out := cmd.OutOrStdout()
	rootOpts.Console = log.New(out, *zerolog.Ctx(ctx))
	rootOpts.UserLogger = status.NewUserLogger(ctx, out)
	cmd.SetContext(log.NewContext(ctx, rootOpts.Console))

	if !commands.NeedsDictionary(cmd) {
		return nil
	}

	cfg, err := loadConfig(ctx, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if dictPath != "" {
		cfg.Dictionary = dictPath
	}
	rootOpts.Config = cfg

	store, err := dict.Open(ctx, cfg.Dictionary, dict.WithStrictReplace(cfg.StrictReplaceOverlap))
	if err != nil {
		return errors.Errorf("opening dictionary: %w", err)
	}
	rootOpts.Store = store

	op, err := operation.New(operation.Options{Config: cfg, Dictionary: store})
	if err != nil {
		return errors.Errorf("creating operator: %w", err)
	}
	rootOpts.Operator = op

	zerolog.Ctx(ctx).Debug().
		Str("config", configFile).
		Str("dictionary", cfg.Dictionary).
		Str("driver", dict.DriverType()).
		Msg("ready")
	return nil
}

// loadConfig reads the config file; a missing default file means defaults
func loadConfig(ctx context.Context, explicit bool) (*config.Config, error) {
	if !explicit {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("config", configFile).Msg("no config file, using defaults")
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
