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

// Package packer transforms a closed segment copy into a (possibly
// compressed) archive.
package packer

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Packer reads a closed segment copy end to end and streams it into an
// archive at path with its extension replaced. Pack returns whether the
// caller should delete the original segment copy afterward.
type Packer interface {
	ArchiveExtension() string
	Pack(fs afero.Fs, path string) (deleteOriginal bool, err error)
	RetryCount() int
}

func replaceExt(path, ext string) string {
	base := path[:len(path)-len(filepath.Ext(path))]
	return base + "." + ext
}

// NoOp keeps the segment copy as-is and never deletes it.
type NoOp struct{}

func (NoOp) ArchiveExtension() string { return "log" }
func (NoOp) RetryCount() int          { return 0 }
func (NoOp) Pack(afero.Fs, string) (bool, error) {
	return false, nil
}

// Zip writes path into a single-entry zip archive at path with its
// extension replaced by ".zip", then reports the original for deletion.
type Zip struct {
	Retries int
}

func (Zip) ArchiveExtension() string { return "zip" }
func (z Zip) RetryCount() int        { return z.Retries }

func (z Zip) Pack(fs afero.Fs, path string) (bool, error) {
	src, err := fs.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "open segment copy %s", path)
	}
	defer src.Close()

	dstPath := replaceExt(path, "zip")
	dst, err := fs.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return false, errors.Wrapf(err, "create archive %s", dstPath)
	}
	defer dst.Close()

	zw := zip.NewWriter(dst)
	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return false, errors.Wrap(err, "start zip entry")
	}
	if _, err := io.Copy(entry, src); err != nil {
		return false, errors.Wrap(err, "write zip entry")
	}
	if err := zw.Close(); err != nil {
		return false, errors.Wrap(err, "finish zip archive")
	}
	return true, nil
}

// GZip streams path into a gzip file at path with its extension replaced
// by ".gz".
type GZip struct {
	Retries int
}

func (GZip) ArchiveExtension() string { return "gz" }
func (g GZip) RetryCount() int        { return g.Retries }

func (g GZip) Pack(fs afero.Fs, path string) (bool, error) {
	src, err := fs.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "open segment copy %s", path)
	}
	defer src.Close()

	dstPath := replaceExt(path, "gz")
	dst, err := fs.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return false, errors.Wrapf(err, "create archive %s", dstPath)
	}
	defer dst.Close()

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		return false, errors.Wrap(err, "write gzip stream")
	}
	if err := gw.Close(); err != nil {
		return false, errors.Wrap(err, "finish gzip stream")
	}
	return true, nil
}

// LZ4 streams path into an lz4 frame at path with its extension replaced
// by ".lz4".
type LZ4 struct {
	Retries int
}

func (LZ4) ArchiveExtension() string { return "lz4" }
func (l LZ4) RetryCount() int        { return l.Retries }

func (l LZ4) Pack(fs afero.Fs, path string) (bool, error) {
	src, err := fs.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "open segment copy %s", path)
	}
	defer src.Close()

	dstPath := replaceExt(path, "lz4")
	dst, err := fs.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return false, errors.Wrapf(err, "create archive %s", dstPath)
	}
	defer dst.Close()

	lw := lz4.NewWriter(dst)
	if _, err := io.Copy(lw, src); err != nil {
		return false, errors.Wrap(err, "write lz4 frame")
	}
	if err := lw.Close(); err != nil {
		return false, errors.Wrap(err, "finish lz4 frame")
	}
	return true, nil
}
