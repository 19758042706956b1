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

// Package record defines the value that flows end to end through the
// logging pipeline: one log event tagged with a command discriminant.
package record

import (
	"time"

	"github.com/rbatis/fast-log/barrier"
)

// Command is the discriminant carried by every Record. Equality between
// two commands is by discriminant only, matching the tagged-enum behavior
// of the upstream Rust crate's Command type.
type Command int8

const (
	// CommandRecord marks a real log entry.
	CommandRecord Command = iota
	// CommandExit drains and terminates every worker in the pipeline.
	CommandExit
	// CommandFlush is a synchronization token. The barrier it carries
	// (Record.Barrier) fires once every worker required to acknowledge
	// has called Done.
	CommandFlush
)

func (c Command) String() string {
	switch c {
	case CommandRecord:
		return "record"
	case CommandExit:
		return "exit"
	case CommandFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// Level mirrors the standard severity ladder used by Go logging facades.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Record is one log event plus its command tag. Records are produced on
// the emitting goroutine, finalized by the formatter worker, and then
// broadcast unchanged to every appender.
type Record struct {
	Command    Command
	Level      Level
	Target     string
	Args       string
	ModulePath string
	File       string
	Line       uint32
	Now        time.Time
	Rendered   string

	// Barrier is non-nil only when Command == CommandFlush or
	// CommandExit; every appender (and, for FileSplitAppender, its
	// packer worker) must call Done on it once it has processed this
	// record's batch.
	Barrier *barrier.Barrier
}

// Batch is a read-only, shared view of records handed to every appender's
// channel. Appenders never mutate it; the last appender to finish with it
// simply lets it be garbage collected.
type Batch struct {
	Records []*Record
}
