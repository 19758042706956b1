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
	"time"

	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
)

// FileDaily rotates at local midnight, naming archives
// "{stem}_{YYYYMMDD}_{seq}.{ext}". It rotates only on a day change, so seq
// is always 0. Retention is day-count based via
// retention.KeepDuration rounded to whole days, mirroring the upstream
// Rust crate's DailyKeepType::KeepDays.
type FileDaily struct {
	inner *FileSplitAppender
}

// NewFileDaily opens (or resumes) a daily-rotated log at
// dir/{stem}_{today}_0.{ext}, with stem and ext split from baseName,
// keeping keepDays days of archives (0 keeps
// only today; a negative value keeps everything).
func NewFileDaily(fs afero.Fs, dir, baseName string, keepDays int, pk packer.Packer) (*FileDaily, error) {
	daily := &rotation.Daily{}
	stem, ext := splitExt(baseName)
	segmentName := daily.CurrentName(stem, time.Now(), ext)

	var keep retention.Keep
	if keepDays < 0 {
		keep = retention.All{}
	} else {
		keep = retention.KeepDuration{D: time.Duration(keepDays+1) * 24 * time.Hour}
	}

	inner, err := NewFileSplitAppender(fs, dir, segmentName, daily, keep, pk, false, 0)
	if err != nil {
		return nil, err
	}
	return &FileDaily{inner: inner}, nil
}

func splitExt(name string) (stem, ext string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, "log"
}

func (f *FileDaily) WriteBatch(records []*record.Record) { f.inner.WriteBatch(records) }
func (f *FileDaily) Flush()                              { f.inner.Flush() }
func (f *FileDaily) Close() error                        { return f.inner.Close() }
