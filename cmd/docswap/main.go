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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/docswap/pkg/log"
	"github.com/walteh/docswap/pkg/swaperr"
)

func main() {
	logger := setupLogging(os.Args[1:])
	ctx := logger.WithContext(context.Background())

	if err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		console := log.New(os.Stderr, zerolog.Nop())
		console.Errorf("%s: %v", swaperr.Kind(err), err)
		os.Exit(1)
	}
}

// setupLogging builds the stderr logger before cobra parses flags
func setupLogging(args []string) zerolog.Logger {
	level := zerolog.InfoLevel
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			level = zerolog.DebugLevel
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
