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

package fastlog

import "errors"

// Sentinel errors of the public API. Init returns ErrNoAppenders or
// ErrAlreadyInitialized; the package-level functions return
// ErrNotInitialized before Init. Everything past Init succeeds or fails
// silently on the write/archival path; the Config builders that open files
// return the underlying I/O error instead of a sentinel.
var (
	ErrNoAppenders         = errors.New("fastlog: config has no appenders")
	ErrAlreadyInitialized  = errors.New("fastlog: logger already initialized")
	ErrInstallLoggerFailed = errors.New("fastlog: failed to install logger")
	ErrNotInitialized      = errors.New("fastlog: logger not initialized")
)
