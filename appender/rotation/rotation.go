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

// Package rotation implements the CanRollingPack contract: given the
// current segment's prospective size and an incoming record, decide
// whether to close the segment now and what to name the resulting
// archive.
package rotation

import (
	"fmt"
	"strings"
	"time"

	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/record"
	"github.com/tidwall/tinylru"
)

// Predicate is consulted before every record is appended to the live
// segment. Returning rotate == true demands rotation; archiveName names the
// archive. FileSplitAppender gives the rotated-away copy this name with the
// live segment's extension, and the packer then writes the archive under
// its own extension.
type Predicate interface {
	Decide(pk packer.Packer, segmentStem string, prospectiveSize int64, rec *record.Record) (archiveName string, rotate bool)
}

const isoLayout = "2006-01-02T15-04-05.999999999"

func archiveName(stem string, when time.Time, ext string) string {
	stamp := strings.ReplaceAll(when.Format(isoLayout), ":", "-")
	return fmt.Sprintf("%s%s.%s", stem, stamp, ext)
}

// BySize rotates once the prospective segment size would reach Limit.
type BySize struct {
	Limit int64
}

func (b BySize) Decide(pk packer.Packer, stem string, prospectiveSize int64, rec *record.Record) (string, bool) {
	if prospectiveSize < b.Limit {
		return "", false
	}
	return archiveName(stem, rec.Now, pk.ArchiveExtension()), true
}

// Granularity is the boundary ByDate compares timestamps at.
type Granularity int8

const (
	Second Granularity = iota
	Minute
	Hour
	Day
	Month
	Year
)

func truncate(t time.Time, g Granularity) (y, mo, d, h, mi, s int) {
	y, moTime, d := t.Date()
	mo = int(moTime)
	h, mi, s = t.Clock()
	switch g {
	case Year:
		mo, d, h, mi, s = 0, 0, 0, 0, 0
	case Month:
		d, h, mi, s = 0, 0, 0, 0
	case Day:
		h, mi, s = 0, 0, 0
	case Hour:
		mi, s = 0, 0
	case Minute:
		s = 0
	case Second:
	}
	return
}

// ByDate rotates when the incoming record's timestamp differs from the
// previously-seen record's timestamp at the configured granularity. The
// last-seen bucket per segment stem is cached in a small LRU (repurposed
// from oxia's segment-entry cache in server/wal/log.go) so concurrent
// FileSplitAppender instances sharing a process do not need a global map.
type ByDate struct {
	Granularity Granularity

	cache tinylru.LRU
}

func bucketKey(y, mo, d, h, mi, s int) string {
	return fmt.Sprintf("%04d%02d%02d%02d%02d%02d", y, mo, d, h, mi, s)
}

func (b *ByDate) Decide(pk packer.Packer, stem string, _ int64, rec *record.Record) (string, bool) {
	y, mo, d, h, mi, s := truncate(rec.Now, b.Granularity)
	key := bucketKey(y, mo, d, h, mi, s)
	prevV, ok := b.cache.Get(stem)
	if !ok {
		b.cache.Set(stem, key)
		return "", false
	}
	prev := prevV.(string)
	if prev == key {
		return "", false
	}
	b.cache.Set(stem, key)
	return fmt.Sprintf("%s_%s.%s", stem, prev, pk.ArchiveExtension()), true
}

// ByDuration rotates once rec.Now has reached the configured start plus
// Delta; on rotation the window start advances to rec.Now.
type ByDuration struct {
	Start time.Time
	Delta time.Duration
}

func (b *ByDuration) Decide(pk packer.Packer, stem string, _ int64, rec *record.Record) (string, bool) {
	if rec.Now.Before(b.Start.Add(b.Delta)) {
		return "", false
	}
	name := archiveName(stem, rec.Now, pk.ArchiveExtension())
	b.Start = rec.Now
	return name, true
}

// Custom adapts a plain function to the Predicate interface.
type Custom func(pk packer.Packer, segmentStem string, prospectiveSize int64, rec *record.Record) (string, bool)

func (c Custom) Decide(pk packer.Packer, segmentStem string, prospectiveSize int64, rec *record.Record) (string, bool) {
	return c(pk, segmentStem, prospectiveSize, rec)
}

// Daily rotates once per calendar day (local midnight), naming archives
// "{stem}_{YYYYMMDD}_{seq}.{ext}" with a sequence number that resets to 0
// at each day boundary. Decide itself never advances seq; only
// AdvanceSequence does.
type Daily struct {
	day time.Time
	seq int
	set bool
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CurrentName returns the archive name for the current day/sequence
// without deciding rotation, used by FileDaily to name its live segment on
// open/resume.
func (d *Daily) CurrentName(stem string, now time.Time, ext string) string {
	if !d.set {
		d.day = midnight(now)
		d.set = true
	}
	return fmt.Sprintf("%s_%s_%d.%s", stem, d.day.Format("20060102"), d.seq, ext)
}

// Decide rotates whenever the incoming record's calendar day differs from
// the day currently open; within a day it never requests rotation.
func (d *Daily) Decide(pk packer.Packer, stem string, _ int64, rec *record.Record) (string, bool) {
	if !d.set {
		d.day = midnight(rec.Now)
		d.set = true
		return "", false
	}
	today := midnight(rec.Now)
	if !today.After(d.day) {
		return "", false
	}
	prevName := fmt.Sprintf("%s_%s_%d.%s", stem, d.day.Format("20060102"), d.seq, pk.ArchiveExtension())
	d.day = today
	d.seq = 0
	return prevName, true
}

// AdvanceSequence returns the name for the current day and sequence, then
// bumps the sequence. FileDaily does not call it.
func (d *Daily) AdvanceSequence(stem string, ext string) string {
	name := fmt.Sprintf("%s_%s_%d.%s", stem, d.day.Format("20060102"), d.seq, ext)
	d.seq++
	return name
}
