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

package appender

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/rbatis/fast-log/record"
)

// Console concatenates every rendered record in a batch and writes them to
// an underlying writer (stdout by default) in a single call.
type Console struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewConsole writes to os.Stdout.
func NewConsole() *Console {
	return NewConsoleWriter(os.Stdout)
}

// NewConsoleWriter writes to an arbitrary writer, letting tests capture
// output in memory.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{w: bufio.NewWriter(w)}
}

func (c *Console) WriteBatch(records []*record.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		if rec.Command != record.CommandRecord {
			continue
		}
		_, _ = c.w.WriteString(rec.Rendered)
	}
	_ = c.w.Flush()
}

func (c *Console) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.w.Flush()
}
