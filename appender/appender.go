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

// Package appender implements the sinks a Record batch is written to:
// Console, File, FileLoop, FileSplit, FileDaily, and Rotate.
package appender

import (
	"github.com/rbatis/fast-log/record"
)

// Appender consumes a batch of records, already formatted by the pipeline's
// formatter worker. Batch write is the unit of work so an appender can
// amortize locking and syscalls across many records at once.
type Appender interface {
	WriteBatch(records []*record.Record)
	Flush()
}
