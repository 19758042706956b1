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
	"path/filepath"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/appender/splitfile"
	"github.com/rbatis/fast-log/barrier"
	"github.com/rbatis/fast-log/internal/ilog"
	"github.com/rbatis/fast-log/internal/queue"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
)

var splitDiag = ilog.Component("file-split-appender")

// logPack is an archival job produced on rotation and consumed by the
// packer worker. Flush and Exit both carry a Barrier so the caller can
// wait for the packer to drain; only Exit additionally terminates the
// worker. The upstream Rust crate conflates the two (any barrier-bearing
// job ends the worker loop) -- kept apart here deliberately, see the
// project design notes.
type logPack struct {
	dir         string
	archivePath string
	barrier     *barrier.Barrier
	exit        bool
}

// FileSplitAppender owns the single writable segment of a size/date/
// duration-rolled sink: it applies a rotation predicate before each
// record, copies the closed segment to an archive path, and hands the
// archive to a dedicated packer worker for (optionally compressing and)
// retention-enforcing cleanup.
type FileSplitAppender struct {
	mu sync.Mutex

	fs          afero.Fs
	dir         string
	segmentName string
	segmentPath string
	maxSize     int64

	predicate rotation.Predicate
	pk        packer.Packer
	keep      retention.Keep

	seg       splitfile.File
	tempBytes int64
	useMmap   bool

	jobs *queue.Queue[logPack]
	done chan struct{}
}

// NewFileSplitAppender opens (or resumes) dir/segmentName as the live
// segment and starts its packer worker.
func NewFileSplitAppender(fs afero.Fs, dir, segmentName string, predicate rotation.Predicate, keep retention.Keep, pk packer.Packer, useMmap bool, mmapSize int64) (*FileSplitAppender, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create log dir %s", dir)
	}
	segPath := filepath.Join(dir, segmentName)

	a := &FileSplitAppender{
		fs:          fs,
		dir:         dir,
		segmentName: segmentName,
		segmentPath: segPath,
		predicate:   predicate,
		pk:          pk,
		keep:        keep,
		useMmap:     useMmap,
		jobs:        queue.New[logPack](),
		done:        make(chan struct{}),
	}

	var seg splitfile.File
	var err error
	if useMmap {
		seg, err = splitfile.OpenMmapFile(fs, segPath, mmapSize, 0o644)
	} else {
		seg, err = splitfile.OpenRawFile(fs, segPath, 0o644)
	}
	if err != nil {
		return nil, err
	}
	a.seg = seg
	if off, err := seg.Offset(); err == nil {
		a.tempBytes = off
	}

	go a.runPacker()
	return a, nil
}

// WriteBatch implements the per-batch rotation algorithm: accumulate a
// pending buffer, consult the rotation predicate before each record, and
// flush the buffer at the end.
func (a *FileSplitAppender) WriteBatch(records []*record.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stem := stemOf(a.segmentName)
	var pending []byte

	for _, rec := range records {
		switch rec.Command {
		case record.CommandRecord:
			prospective := a.tempBytes + int64(len(pending)) + int64(len(rec.Rendered))
			if name, rotate := a.predicate.Decide(a.pk, stem, prospective, rec); rotate {
				a.flushPending(&pending)
				a.rotate(name)
			}
			pending = append(pending, rec.Rendered...)
		case record.CommandFlush:
			a.flushPending(&pending)
			_ = a.seg.Flush()
			// The packer worker acknowledges this barrier in addition
			// to the pipeline's own per-appender ack, so the live
			// write path and the archival path both have to settle
			// before the caller unblocks. See the project design
			// notes on Flush/packer interaction.
			if rec.Barrier != nil {
				rec.Barrier.Add(1)
			}
			a.jobs.Push(logPack{dir: a.dir, barrier: rec.Barrier, exit: false})
		case record.CommandExit:
			a.flushPending(&pending)
			if rec.Barrier != nil {
				rec.Barrier.Add(1)
			}
			a.jobs.Push(logPack{dir: a.dir, barrier: rec.Barrier, exit: true})
		}
	}
	a.flushPending(&pending)
}

func (a *FileSplitAppender) flushPending(pending *[]byte) {
	if len(*pending) == 0 {
		return
	}
	n, err := a.seg.Write(*pending)
	if err != nil {
		splitDiag.Error().Err(err).Str("segment", a.segmentPath).Msg("write failed")
	}
	a.tempBytes += int64(n)
	*pending = (*pending)[:0]
}

// rotate flushes and copies the live segment to an archive path, enqueues
// a packer job for it, and truncates the live segment back to empty.
func (a *FileSplitAppender) rotate(archiveName string) {
	_ = a.seg.Flush()

	// The copy keeps the live segment's extension; the packer then writes
	// its archive beside it under its own extension.
	archivePath := filepath.Join(a.dir, stemOf(archiveName)+filepath.Ext(a.segmentName))
	if err := a.copySegmentTo(archivePath); err != nil {
		splitDiag.Error().Err(err).Str("archive", archivePath).Msg("rotate copy failed")
	} else {
		a.jobs.Push(logPack{dir: a.dir, archivePath: archivePath})
	}

	if err := a.seg.Truncate(); err != nil {
		splitDiag.Error().Err(err).Str("segment", a.segmentPath).Msg("truncate failed")
	}
	a.tempBytes = 0
}

func (a *FileSplitAppender) copySegmentTo(dst string) error {
	src, err := a.fs.Open(a.segmentPath)
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := a.fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	buf := make([]byte, 32*1024)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr != nil {
			break
		}
	}
	return nil
}

func stemOf(segmentName string) string {
	ext := filepath.Ext(segmentName)
	return segmentName[:len(segmentName)-len(ext)]
}

// Flush forces the live segment to disk. Barrier acknowledgement for
// FileSplitAppender happens through WriteBatch's packer-job hand-off, not
// here -- Flush on the appender interface is a synchronous convenience for
// callers that bypass the pipeline.
func (a *FileSplitAppender) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.seg.Flush()
}

// runPacker drains archival jobs serially: pack, conditionally delete the
// segment copy, enforce retention, and acknowledge any barrier. An Exit
// job is drained like any other, then stops the worker.
func (a *FileSplitAppender) runPacker() {
	defer close(a.done)
	for {
		job, ok := a.jobs.Pop()
		if !ok {
			return
		}
		if job.archivePath != "" {
			a.packWithRetry(job.archivePath)
			if _, err := a.keep.Enforce(a.fs, job.dir, a.segmentName); err != nil {
				splitDiag.Warn().Err(err).Msg("retention enforcement failed")
			}
		}
		if job.barrier != nil {
			job.barrier.Done()
		}
		if job.exit {
			a.jobs.Close()
			return
		}
	}
}

func (a *FileSplitAppender) packWithRetry(archivePath string) {
	op := func() error {
		deleteOriginal, err := a.pk.Pack(a.fs, archivePath)
		if err != nil {
			return err
		}
		if deleteOriginal {
			if err := a.fs.Remove(archivePath); err != nil {
				splitDiag.Warn().Err(err).Str("path", archivePath).Msg("could not delete packed original")
			}
		}
		return nil
	}
	retries := a.pk.RetryCount()
	if retries <= 0 {
		if err := op(); err != nil {
			splitDiag.Error().Err(err).Str("path", archivePath).Msg("pack failed, not retrying")
		}
		return
	}
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	if err := backoff.Retry(op, bo); err != nil {
		splitDiag.Error().Err(err).Str("path", archivePath).Msg("pack failed after retries")
	}
}

// Close sends the packer worker an Exit job, waits for the worker to stop,
// and closes the live segment. If the worker has already stopped (an Exit
// record came through WriteBatch), the job is dropped by the closed queue
// and Close does not wait on it.
func (a *FileSplitAppender) Close() error {
	a.jobs.Push(logPack{dir: a.dir, exit: true})
	<-a.done
	return a.seg.Close()
}
