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

// Package filter provides the ordered predicate chain the Logger facade
// consults before enqueuing a Record.
package filter

import (
	"sync"

	"github.com/rbatis/fast-log/record"
)

// Filter decides whether a record should be logged. Returning false drops
// the record before it ever reaches the ingest channel.
type Filter interface {
	DoLog(rec *record.Record) bool
}

// ModuleFilter drops every record whose ModulePath exactly matches one of
// a configured set of module paths.
type ModuleFilter struct {
	mu      sync.RWMutex
	modules map[string]struct{}
}

// NewModuleFilter returns an empty ModuleFilter; nothing is dropped until
// modules are added.
func NewModuleFilter() *ModuleFilter {
	return &ModuleFilter{modules: make(map[string]struct{})}
}

// Add registers a module path to drop.
func (f *ModuleFilter) Add(modulePath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules[modulePath] = struct{}{}
}

func (f *ModuleFilter) DoLog(rec *record.Record) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.modules) == 0 {
		return true
	}
	_, dropped := f.modules[rec.ModulePath]
	return !dropped
}

// Custom adapts a plain function to the Filter interface.
type Custom func(rec *record.Record) bool

func (c Custom) DoLog(rec *record.Record) bool { return c(rec) }
