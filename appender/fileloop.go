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
	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
)

// FileLoop is a FileSplitAppender preconfigured with a size limit,
// KeepNum(1), and a no-op packer: a size-bounded single-file rolling log
// that never accumulates more than one archive.
type FileLoop struct {
	inner *FileSplitAppender
}

// NewFileLoop opens (or resumes) a loop-truncated log at dir/segmentName
// that rotates once the live segment would exceed maxSize.
func NewFileLoop(fs afero.Fs, dir, segmentName string, maxSize int64) (*FileLoop, error) {
	inner, err := NewFileSplitAppender(fs, dir, segmentName, rotation.BySize{Limit: maxSize}, retention.KeepNum{N: 1}, packer.NoOp{}, false, 0)
	if err != nil {
		return nil, err
	}
	return &FileLoop{inner: inner}, nil
}

func (f *FileLoop) WriteBatch(records []*record.Record) { f.inner.WriteBatch(records) }
func (f *FileLoop) Flush()                              { f.inner.Flush() }
func (f *FileLoop) Close() error                        { return f.inner.Close() }
