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

// Package fastlog is the public facade: a process-wide logger singleton
// initialized once via Init, emitting through Log, synchronized through
// Flush, and torn down through Exit.
package fastlog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rbatis/fast-log/barrier"
	"github.com/rbatis/fast-log/internal/ilog"
	"github.com/rbatis/fast-log/pipeline"
	"github.com/rbatis/fast-log/record"
)

var diag = ilog.Component("fastlog")

// Logger is the handle returned by Init. Applications normally don't hold
// onto it directly -- Log/Flush/Exit/Print are also available as package
// functions operating on the process-wide singleton -- but Init also
// returns it so a caller can use it directly. Init installs at most one
// Logger per process.
type Logger struct {
	level   atomic.Int32
	filters []filterFn
	pipe    *pipeline.Pipeline
	exited  atomic.Bool
}

type filterFn func(rec *record.Record) bool

var (
	singletonMu sync.Mutex
	singleton   *Logger
)

// Init installs the process-wide logger exactly once. A second call
// returns ErrAlreadyInitialized.
func Init(cfg *Config) (*Logger, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton != nil {
		return nil, ErrAlreadyInitialized
	}
	l, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	singleton = l
	return l, nil
}

func newLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if len(cfg.Appenders) == 0 {
		return nil, ErrNoAppenders
	}
	l := &Logger{
		pipe: pipeline.New(cfg.Formatter, cfg.Appenders),
	}
	l.level.Store(int32(cfg.Level))
	for _, f := range cfg.Filters {
		f := f
		l.filters = append(l.filters, f.DoLog)
	}
	return l, nil
}

// SetLevel adjusts the minimum level admitted by the facade.
func (l *Logger) SetLevel(level record.Level) {
	l.level.Store(int32(level))
}

func (l *Logger) enabled(level record.Level) bool {
	return level >= record.Level(l.level.Load())
}

// Log runs the filter chain and, if the record survives, enqueues it.
// Infallible: the ingest queue is unbounded, so Log never blocks, and a
// log call after Exit has been called is silently dropped.
func (l *Logger) Log(rec record.Record) {
	if l.exited.Load() {
		diag.Debug().Msg("log call after exit, dropping")
		return
	}
	if !l.enabled(rec.Level) {
		return
	}
	for _, f := range l.filters {
		if !f(&rec) {
			return
		}
	}
	r := rec
	l.pipe.Enqueue(&r)
}

// Flush injects a Flush command and returns a Barrier the caller can Wait
// on. Records enqueued after this call are not covered by the returned
// barrier.
func (l *Logger) Flush() *barrier.Barrier {
	bar := barrier.New(0)
	l.pipe.Enqueue(&record.Record{Command: record.CommandFlush, Now: time.Now(), Barrier: bar})
	return bar
}

// Exit injects an Exit command, drains every worker, and returns once the
// exit barrier has fired. A second call is a no-op.
func (l *Logger) Exit() {
	if l.exited.Swap(true) {
		return
	}
	bar := barrier.New(0)
	l.pipe.Enqueue(&record.Record{Command: record.CommandExit, Now: time.Now(), Barrier: bar})
	_ = bar.Wait(context.Background())
}

// Print emits a pre-formatted string directly, bypassing the formatter.
func (l *Logger) Print(s string) {
	if l.exited.Load() {
		return
	}
	l.pipe.Enqueue(&record.Record{Command: record.CommandRecord, Rendered: s, Now: time.Now()})
}

// Log enqueues rec on the process-wide singleton.
func Log(rec record.Record) error {
	l := current()
	if l == nil {
		return ErrNotInitialized
	}
	l.Log(rec)
	return nil
}

// Flush injects a Flush command on the process-wide singleton.
func Flush() (*barrier.Barrier, error) {
	l := current()
	if l == nil {
		return nil, ErrNotInitialized
	}
	return l.Flush(), nil
}

// Exit drains and terminates the process-wide singleton.
func Exit() error {
	l := current()
	if l == nil {
		return ErrNotInitialized
	}
	l.Exit()
	return nil
}

// Print emits a pre-formatted line on the process-wide singleton.
func Print(s string) error {
	l := current()
	if l == nil {
		return ErrNotInitialized
	}
	l.Print(s)
	return nil
}

func current() *Logger {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return singleton
}

// resetForTest tears down the singleton so tests can Init a fresh logger.
// Unexported: not part of the public API.
func resetForTest() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	singleton = nil
}
