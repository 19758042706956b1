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

// Package format renders a Record into the string an appender writes.
package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rbatis/fast-log/record"
)

// TimeType selects how timestamps are rendered.
type TimeType int8

const (
	TimeLocal TimeType = iota
	TimeUTC
)

func (t TimeType) apply(when time.Time) time.Time {
	if t == TimeUTC {
		return when.UTC()
	}
	return when.Local()
}

const timeLayout = "2006-01-02 15:04:05.999999999"

// Formatter turns one Record into its rendered line. Records whose Command
// is not CommandRecord must return the empty string -- the pipeline skips
// formatting for Exit/Flush records entirely, but stock implementations
// honor the contract defensively.
type Formatter interface {
	Format(rec *record.Record) string
}

// Plain renders "{timestamp} {level} {module} - {message}\n", appending a
// "{file}:{line}" suffix when the record's level is at or above
// DisplayLineLevel.
type Plain struct {
	DisplayLineLevel record.Level
	Time             TimeType
}

// NewPlain returns a Plain formatter defaulting to showing file:line for
// Warn and above, matching the upstream Rust crate's default threshold.
func NewPlain() *Plain {
	return &Plain{DisplayLineLevel: record.LevelWarn}
}

func (p *Plain) Format(rec *record.Record) string {
	if rec.Command != record.CommandRecord {
		return ""
	}
	now := p.Time.apply(rec.Now)
	var b strings.Builder
	b.WriteString(now.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(rec.Level.String())
	b.WriteByte(' ')
	b.WriteString(rec.ModulePath)
	b.WriteString(" - ")
	b.WriteString(rec.Args)
	if rec.Level >= p.DisplayLineLevel {
		fmt.Fprintf(&b, "  %s:%d", rec.File, rec.Line)
	}
	b.WriteByte('\n')
	return b.String()
}

// JSON renders one compact JSON object per line.
type JSON struct {
	Time TimeType
}

func NewJSON() *JSON { return &JSON{} }

type jsonLine struct {
	Args  string `json:"args"`
	Date  string `json:"date"`
	File  string `json:"file"`
	Level string `json:"level"`
	Line  uint32 `json:"line"`
}

func (j *JSON) Format(rec *record.Record) string {
	if rec.Command != record.CommandRecord {
		return ""
	}
	now := j.Time.apply(rec.Now)
	line := jsonLine{
		Args:  rec.Args,
		Date:  now.Format(timeLayout),
		File:  rec.File,
		Level: rec.Level.String(),
		Line:  rec.Line,
	}
	out, err := json.Marshal(line)
	if err != nil {
		return ""
	}
	return string(out) + "\n"
}

// Custom adapts a plain function to the Formatter interface.
type Custom func(rec *record.Record) string

func (c Custom) Format(rec *record.Record) string { return c(rec) }
