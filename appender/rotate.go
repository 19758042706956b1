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
	"fmt"

	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
)

// Rotate is a FileSplitAppender whose archive names are a caller-
// controlled integer sequence rather than a timestamp, modeled on the
// upstream Rust crate's Rotate trait (base_name/init/current/next). The
// starting index is derived by scanning dir for the highest existing
// "{stem}_{n}.*" archive on open.
type Rotate struct {
	inner *FileSplitAppender
}

// NewRotate opens (or resumes) an index-rotated log. limit is the size
// threshold that triggers the next rotation.
func NewRotate(fs afero.Fs, dir, baseName string, limit int64, keep retention.Keep, pk packer.Packer) (*Rotate, error) {
	stem, ext := splitExt(baseName)
	start := nextIndex(fs, dir, stem)

	idx := start
	pred := rotation.Custom(func(pk packer.Packer, stem string, prospectiveSize int64, rec *record.Record) (string, bool) {
		if prospectiveSize < limit {
			return "", false
		}
		name := fmt.Sprintf("%s_%d.%s", stem, idx, pk.ArchiveExtension())
		idx++
		return name, true
	})

	segmentName := fmt.Sprintf("%s_%d.%s", stem, start, ext)
	inner, err := NewFileSplitAppender(fs, dir, segmentName, pred, keep, pk, false, 0)
	if err != nil {
		return nil, err
	}
	return &Rotate{inner: inner}, nil
}

// nextIndex scans dir for files named "{stem}_{n}.*" and returns
// one past the highest n found, or 0 if none exist.
func nextIndex(fs afero.Fs, dir, stem string) int {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0
	}
	highest := -1
	for _, e := range entries {
		var n int
		if _, err := fmt.Sscanf(e.Name(), stem+"_%d.", &n); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func (r *Rotate) WriteBatch(records []*record.Record) { r.inner.WriteBatch(records) }
func (r *Rotate) Flush()                              { r.inner.Flush() }
func (r *Rotate) Close() error                        { return r.inner.Close() }
