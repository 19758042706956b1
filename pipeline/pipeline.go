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

// Package pipeline wires the ingest channel through the formatter worker
// to a broadcast fan-out of per-appender channels, the two stages behind
// every Logger.
package pipeline

import (
	"github.com/rbatis/fast-log/appender"
	"github.com/rbatis/fast-log/format"
	"github.com/rbatis/fast-log/internal/ilog"
	"github.com/rbatis/fast-log/internal/queue"
	"github.com/rbatis/fast-log/record"
)

var diag = ilog.Component("pipeline")

// Sink pairs an appender with its own dedicated queue, so each appender
// drains at its own rate instead of contending on a single shared channel.
type sink struct {
	app appender.Appender
	q   *queue.Queue[*record.Batch]
}

// Pipeline owns the ingest queue, the formatter worker goroutine, and one
// worker goroutine per appender.
type Pipeline struct {
	ingest    *queue.Queue[*record.Record]
	formatter format.Formatter
	sinks     []*sink
	done      chan struct{}
}

// New starts the formatter worker and one worker per appender. The
// pipeline owns none of the appenders' lifecycles beyond writing to them;
// callers are responsible for closing appenders that need it (e.g.
// FileSplitAppender's packer worker) after Exit's barrier fires.
func New(f format.Formatter, appenders []appender.Appender) *Pipeline {
	p := &Pipeline{
		ingest:    queue.New[*record.Record](),
		formatter: f,
		done:      make(chan struct{}),
	}
	for _, a := range appenders {
		p.sinks = append(p.sinks, &sink{app: a, q: queue.New[*record.Batch]()})
	}
	go p.runFormatter()
	for _, s := range p.sinks {
		go p.runAppender(s)
	}
	return p
}

// Enqueue admits one record to the ingest queue. Never blocks: the
// underlying queue is unbounded and nothing bounds it.
func (p *Pipeline) Enqueue(rec *record.Record) {
	p.ingest.Push(rec)
}

// runFormatter drains the ingest queue, formats every CommandRecord entry
// that has no rendered text yet (Print's records arrive pre-rendered), and
// broadcasts the same shared batch to every appender's queue.
func (p *Pipeline) runFormatter() {
	for {
		first, ok := p.ingest.Pop()
		if !ok {
			return
		}
		batch := []*record.Record{first}
		batch = append(batch, p.ingest.DrainReady()...)

		for _, rec := range batch {
			if rec.Command == record.CommandRecord && rec.Rendered == "" {
				rec.Rendered = p.formatter.Format(rec)
			}
		}

		shared := &record.Batch{Records: batch}
		// With no appenders nothing is added to any barrier, so a
		// Flush/Exit caller waiting on one is never stuck on workers
		// that do not exist.
		if len(p.sinks) > 0 {
			for _, rec := range batch {
				if rec.Barrier != nil {
					rec.Barrier.Add(len(p.sinks))
				}
			}
			for _, s := range p.sinks {
				s.q.Push(shared)
			}
		}

		if containsExit(batch) {
			p.ingest.Close()
			return
		}
	}
}

func containsExit(batch []*record.Record) bool {
	for _, rec := range batch {
		if rec.Command == record.CommandExit {
			return true
		}
	}
	return false
}

// runAppender drains one sink's queue, opportunistically coalescing
// additionally-ready batches, and calls WriteBatch once per round.
func (p *Pipeline) runAppender(s *sink) {
	for {
		first, ok := s.q.Pop()
		if !ok {
			return
		}
		batches := []*record.Batch{first}
		batches = append(batches, s.q.DrainReady()...)

		var all []*record.Record
		exit := false
		for _, b := range batches {
			all = append(all, b.Records...)
			if containsExit(b.Records) {
				exit = true
			}
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					diag.Error().Interface("panic", r).Msg("appender write panicked")
				}
			}()
			s.app.WriteBatch(all)
		}()

		for _, rec := range all {
			if rec.Barrier != nil {
				rec.Barrier.Done()
			}
		}

		if exit {
			s.q.Close()
			return
		}
	}
}
