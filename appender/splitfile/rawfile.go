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

package splitfile

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// RawFile wraps a conventional afero.File, appendable in place. Using
// afero rather than *os.File directly lets every appender that embeds a
// RawFile run against afero.NewMemMapFs() in tests, the same substitution
// oxia's wal.Log makes for its InMemory option.
type RawFile struct {
	fs   afero.Fs
	path string
	f    afero.File
}

// OpenRawFile opens path for read-write, creating it if absent, and
// positions the cursor at end-of-file.
func OpenRawFile(fs afero.Fs, path string, perm os.FileMode) (*RawFile, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "open segment %s", path)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "seek segment %s", path)
	}
	return &RawFile{fs: fs, path: path, f: f}, nil
}

func (r *RawFile) Write(p []byte) (int, error) {
	return r.f.Write(p)
}

func (r *RawFile) Seek(offset int64, whence int) (int64, error) {
	return r.f.Seek(offset, whence)
}

func (r *RawFile) Truncate() error {
	if err := r.f.Truncate(0); err != nil {
		return errors.Wrapf(err, "truncate segment %s", r.path)
	}
	_, err := r.f.Seek(0, io.SeekStart)
	return err
}

func (r *RawFile) Flush() error {
	return r.f.Sync()
}

func (r *RawFile) Len() (int64, error) {
	info, err := r.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (r *RawFile) Offset() (int64, error) {
	return r.f.Seek(0, io.SeekCurrent)
}

func (r *RawFile) Close() error {
	return r.f.Close()
}
