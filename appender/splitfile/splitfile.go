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

// Package splitfile provides the byte-sink abstraction FileSplitAppender
// writes through: a conventional file (RawFile) or a preallocated
// memory-mapped region (MmapFile).
package splitfile

import "io"

// File is the contract every segment backend satisfies.
type File interface {
	io.Writer
	// Seek repositions the write cursor, stdlib io.Seeker semantics.
	Seek(offset int64, whence int) (int64, error)
	// Truncate sets the logical length to zero and rewinds the cursor
	// to zero, flushing any buffered state.
	Truncate() error
	// Flush is a best-effort durability hint; it gives no hard fsync
	// guarantee.
	Flush() error
	// Len returns the segment's length on disk: the file size for
	// RawFile, the whole preallocated region for MmapFile (the end of
	// written data is Offset).
	Len() (int64, error)
	// Offset returns the current append position, used to restore the
	// running byte counter on reopen.
	Offset() (int64, error)
	// Close releases the underlying handle.
	Close() error
}
