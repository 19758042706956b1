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
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/rbatis/fast-log/internal/ilog"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
)

var fileDiag = ilog.Component("file-appender")

// File is a single always-open file handle appended to in place. Unlike
// FileSplitAppender it never rotates.
type File struct {
	mu sync.Mutex
	f  afero.File
}

// NewFile opens (creating if absent) path for append.
func NewFile(fs afero.Fs, path string) (*File, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return &File{f: f}, nil
}

func (a *File) WriteBatch(records []*record.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, rec := range records {
		switch rec.Command {
		case record.CommandRecord:
			if _, err := a.f.WriteString(rec.Rendered); err != nil {
				fileDiag.Error().Err(err).Msg("write failed")
			}
		case record.CommandFlush:
			if err := a.f.Sync(); err != nil {
				fileDiag.Warn().Err(err).Msg("flush failed")
			}
		}
	}
}

func (a *File) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.f.Sync()
}

func (a *File) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.f.Close()
}
