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

// Package retention implements archive cleanup policies (Keep).
package retention

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/rbatis/fast-log/internal/ilog"
	"github.com/spf13/afero"
)

var diag = ilog.Component("retention")

// Keep enumerates archive siblings of segmentName in dir and deletes
// entries violating policy. It returns the number of files removed.
type Keep interface {
	Enforce(fs afero.Fs, dir, segmentName string) (removed int, err error)
}

// siblings lists every file in dir whose name starts with the segment's
// base name (stem, minus extension), excluding the live segment, sorted
// descending by filename so that timestamp- or index-suffixed archives
// sort newest-first.
func siblings(fs afero.Fs, dir, segmentName string) ([]string, error) {
	stem := strings.TrimSuffix(segmentName, filepath.Ext(segmentName))
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == segmentName {
			continue
		}
		if strings.HasPrefix(e.Name(), stem) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// All never deletes anything.
type All struct{}

func (All) Enforce(afero.Fs, string, string) (int, error) { return 0, nil }

// KeepNum retains at most N newest archives for a given segment name,
// deleting the rest.
type KeepNum struct {
	N int
}

func (k KeepNum) Enforce(fs afero.Fs, dir, segmentName string) (int, error) {
	names, err := siblings(fs, dir, segmentName)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i, name := range names {
		if i < k.N {
			continue
		}
		if err := fs.Remove(filepath.Join(dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// KeepDuration deletes archives whose file creation time is older than
// now - D. Creation time is read via github.com/djherbis/times, which
// exposes platform birth time where available and falls back to ModTime
// otherwise -- os.FileInfo alone cannot report creation time portably.
type KeepDuration struct {
	D time.Duration
}

func (k KeepDuration) Enforce(fs afero.Fs, dir, segmentName string) (int, error) {
	names, err := siblings(fs, dir, segmentName)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-k.D)
	removed := 0
	for _, name := range names {
		full := filepath.Join(dir, name)
		created, err := birthTime(fs, full)
		if err != nil {
			diag.Debug().Err(err).Str("path", full).Msg("could not determine creation time")
			continue
		}
		if created.Before(cutoff) {
			if err := fs.Remove(full); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// birthTime resolves file creation time. times.Stat works against real OS
// paths; for afero's in-memory filesystem (used in tests) it falls back to
// the afero FileInfo's ModTime, since the in-memory fs has no birth-time
// concept to query.
func birthTime(fs afero.Fs, path string) (time.Time, error) {
	switch fs.(type) {
	case afero.OsFs, *afero.OsFs:
		t, err := times.Stat(path)
		if err != nil {
			return time.Time{}, err
		}
		if t.HasBirthTime() {
			return t.BirthTime(), nil
		}
		return t.ModTime(), nil
	}
	info, err := fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
