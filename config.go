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

package fastlog

import (
	"github.com/rbatis/fast-log/appender"
	"github.com/rbatis/fast-log/appender/filter"
	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/format"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
)

// Config is a builder for Init, following the upstream Rust crate's own
// Config::new().console().file(...) chaining style.
type Config struct {
	Level     record.Level
	Filters   []filter.Filter
	Formatter format.Formatter
	// ChanLen is stored but not applied: the ingest queue and every
	// appender queue are unbounded whatever its value.
	ChanLen int

	Fs        afero.Fs
	Appenders []appender.Appender
}

// NewConfig returns a Config defaulting to level Info, the Plain
// formatter, and an unbounded ingest queue with no appenders (Init will
// reject it with ErrNoAppenders until at least one is added).
func NewConfig() *Config {
	return &Config{
		Level:     record.LevelInfo,
		Formatter: format.NewPlain(),
		Fs:        afero.NewOsFs(),
	}
}

func (c *Config) WithLevel(l record.Level) *Config {
	c.Level = l
	return c
}

func (c *Config) WithFormatter(f format.Formatter) *Config {
	c.Formatter = f
	return c
}

func (c *Config) WithChanLen(n int) *Config {
	c.ChanLen = n
	return c
}

func (c *Config) WithFs(fs afero.Fs) *Config {
	c.Fs = fs
	return c
}

func (c *Config) AddFilter(f filter.Filter) *Config {
	c.Filters = append(c.Filters, f)
	return c
}

// Console appends a Console appender writing to stdout.
func (c *Config) Console() *Config {
	c.Appenders = append(c.Appenders, appender.NewConsole())
	return c
}

// File appends a single always-open FileAppender at path.
func (c *Config) File(path string) (*Config, error) {
	a, err := appender.NewFile(c.Fs, path)
	if err != nil {
		return c, err
	}
	c.Appenders = append(c.Appenders, a)
	return c, nil
}

// FileLoop appends a size-bounded single-file rolling log.
func (c *Config) FileLoop(dir, segmentName string, maxSize int64) (*Config, error) {
	a, err := appender.NewFileLoop(c.Fs, dir, segmentName, maxSize)
	if err != nil {
		return c, err
	}
	c.Appenders = append(c.Appenders, a)
	return c, nil
}

// FileSplit appends a fully-general rotatable, packed, retention-governed
// segment appender.
func (c *Config) FileSplit(dir, segmentName string, pred rotation.Predicate, keep retention.Keep, pk packer.Packer) (*Config, error) {
	a, err := appender.NewFileSplitAppender(c.Fs, dir, segmentName, pred, keep, pk, false, 0)
	if err != nil {
		return c, err
	}
	c.Appenders = append(c.Appenders, a)
	return c, nil
}

// FileDaily appends a midnight-rotated log.
func (c *Config) FileDaily(dir, baseName string, keepDays int, pk packer.Packer) (*Config, error) {
	a, err := appender.NewFileDaily(c.Fs, dir, baseName, keepDays, pk)
	if err != nil {
		return c, err
	}
	c.Appenders = append(c.Appenders, a)
	return c, nil
}

// Custom appends any caller-supplied Appender.
func (c *Config) Custom(a appender.Appender) *Config {
	c.Appenders = append(c.Appenders, a)
	return c
}
