// Copyright 2023 StreamNative, Inc.
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

// Package ilog carries the library's own best-effort diagnostics: write
// failures, packer retries, retention errors. None of this reaches the
// application logger or the caller -- it is swallowed per the error
// taxonomy, but still worth seeing when something on the write path is
// unhealthy.
package ilog

import (
	"os"

	"github.com/rs/zerolog"
)

// Component returns a logger tagged with the subsystem emitting the event,
// mirroring oxia's log.Logger.With().Str("component", ...).Logger()
// convention.
func Component(name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLevel adjusts the global diagnostic verbosity. Applications embedding
// this library can call this to silence or raise internal diagnostics
// independently of their own log level.
func SetLevel(lvl zerolog.Level) {
	zerolog.SetGlobalLevel(lvl)
}
