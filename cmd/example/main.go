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

// Command example demonstrates bringing up the logger with a console
// sink plus a size-rotated, gzip-packed split appender, writing a handful
// of records, then flushing and exiting cleanly.
package main

import (
	"fmt"
	"time"

	fastlog "github.com/rbatis/fast-log"
	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/record"
)

func main() {
	cfg, err := fastlog.NewConfig().
		Console().
		FileSplit("./logs", "app.log", rotation.BySize{Limit: 10 << 20}, retention.KeepNum{N: 5}, packer.GZip{})
	if err != nil {
		panic(err)
	}

	l, err := fastlog.Init(cfg)
	if err != nil {
		panic(err)
	}

	for i := 0; i < 5; i++ {
		l.Log(record.Record{
			Command:    record.CommandRecord,
			Level:      record.LevelInfo,
			ModulePath: "example",
			Args:       fmt.Sprintf("commencing yak shaving %d", i),
			Now:        time.Now(),
		})
	}

	bar := l.Flush()
	_ = bar.Wait(nil)
	l.Exit()
}
