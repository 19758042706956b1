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
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// MmapFile preallocates a fixed-size region and writes into it by copy
// rather than by syscall per write. The logical end of data is not a
// stored field -- it is recovered by scanning backward for the last
// non-zero byte, so Offset() after reopen finds the same position a fresh
// process would.
type MmapFile struct {
	mu     sync.Mutex
	size   int64
	offset int64

	// OS-backed path: a real file plus an mmap-go mapping over it.
	osFile *os.File
	region mmap.MMap

	// In-memory fallback path, used when fs is not the OS filesystem
	// (afero.NewMemMapFs() in tests); mmap-go has no in-memory mode, so
	// a plain byte slice stands in for the mapped region.
	memBuf []byte
	fs     afero.Fs
	path   string
	perm   os.FileMode
}

// OpenMmapFile preallocates size bytes at path. When fs is backed by the
// real OS filesystem, the region is memory-mapped; otherwise an in-memory
// buffer of the same size is used so tests against afero.NewMemMapFs()
// exercise the same Offset/Truncate semantics without a real mapping.
func OpenMmapFile(fs afero.Fs, path string, size int64, perm os.FileMode) (*MmapFile, error) {
	if size <= 0 {
		size = 1 << 30 // 1 GiB default, matching the upstream Rust crate's default preallocation.
	}
	switch fs.(type) {
	case afero.OsFs, *afero.OsFs:
		return openOSMmapFile(path, size, perm)
	}
	return openMemMmapFile(fs, path, size, perm)
}

func openOSMmapFile(path string, size int64, perm os.FileMode) (*MmapFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "open mmap segment %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.Size() != size {
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "preallocate mmap segment %s", path)
		}
	}
	region, err := mmap.MapRegion(f, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "mmap segment %s", path)
	}
	m := &MmapFile{size: size, osFile: f, region: region}
	m.offset = findOffset(region) + 1
	if m.offset > size {
		m.offset = size
	}
	return m, nil
}

func openMemMmapFile(fs afero.Fs, path string, size int64, perm os.FileMode) (*MmapFile, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "open mmap segment %s", path)
	}
	buf := make([]byte, size)
	info, err := f.Stat()
	if err == nil && info.Size() > 0 {
		n, _ := io.ReadFull(f, buf)
		_ = n
	}
	_ = f.Close()
	m := &MmapFile{size: size, memBuf: buf, osFile: nil}
	m.region = nil
	m.fs, m.path, m.perm = fs, path, perm
	m.offset = findOffset(buf) + 1
	if m.offset > size {
		m.offset = size
	}
	return m, nil
}

func findOffset(b []byte) int64 {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0 {
			return int64(i)
		}
	}
	return -1
}

func (m *MmapFile) bytes() []byte {
	if m.region != nil {
		return m.region
	}
	return m.memBuf
}

func (m *MmapFile) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offset+int64(len(p)) > m.size {
		return 0, errors.New("write past end of mmap segment")
	}
	b := m.bytes()
	copy(b[m.offset:m.offset+int64(len(p))], p)
	m.offset += int64(len(p))
	if m.memBuf != nil {
		m.persistMem()
	}
	return len(p), nil
}

func (m *MmapFile) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = m.offset + offset
	case io.SeekEnd:
		next = m.size + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("seek before start of segment")
	}
	if next > m.size {
		next = m.size
	}
	m.offset = next
	return next, nil
}

func (m *MmapFile) Truncate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bytes()
	for i := range b {
		b[i] = 0
	}
	m.offset = 0
	if m.memBuf != nil {
		m.persistMem()
	}
	return nil
}

func (m *MmapFile) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.region != nil {
		return m.region.Flush()
	}
	m.persistMem()
	return nil
}

// persistMem writes the in-memory region back to the afero-backed file,
// used only on the memory-fs fallback path where there is no real mapping
// to keep in sync automatically.
func (m *MmapFile) persistMem() {
	if m.fs == nil {
		return
	}
	f, err := m.fs.OpenFile(m.path, os.O_WRONLY|os.O_CREATE, m.perm)
	if err != nil {
		return
	}
	_, _ = f.WriteAt(m.memBuf, 0)
	_ = f.Close()
}

func (m *MmapFile) Len() (int64, error) {
	return m.size, nil
}

func (m *MmapFile) Offset() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset, nil
}

func (m *MmapFile) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.region != nil {
		if err := m.region.Unmap(); err != nil {
			return err
		}
	}
	if m.osFile != nil {
		return m.osFile.Close()
	}
	return nil
}
