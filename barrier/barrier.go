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

// Package barrier implements the Flush/Exit acknowledgement handshake.
//
// The upstream Rust crate models a flush token as a reference-counted
// countdown, cloned onto every worker's outgoing record and dropped once
// that worker acknowledges. Go has no destructor hook to mirror "drop", so
// Barrier is an explicit Add/Done/Wait wrapper over sync.WaitGroup, in the
// idiom of oxia's common.WaitGroup helper.
package barrier

import (
	"context"
	"sync"
)

// Barrier is a countdown latch. The caller of Flush or Exit calls Add once
// per worker required to acknowledge, hands a reference to each worker, and
// then Waits. Each worker calls Done exactly once after it has finished
// processing the batch carrying this barrier.
type Barrier struct {
	wg sync.WaitGroup
}

// New returns a Barrier armed for n acknowledgements. n may be zero, in
// which case Wait returns immediately.
func New(n int) *Barrier {
	b := &Barrier{}
	if n > 0 {
		b.wg.Add(n)
	}
	return b
}

// Add arms the barrier for delta additional acknowledgements. Must happen
// before the corresponding Done calls can race it.
func (b *Barrier) Add(delta int) {
	b.wg.Add(delta)
}

// Done acknowledges one worker's completion.
func (b *Barrier) Done() {
	b.wg.Done()
}

// Wait blocks until every armed acknowledgement has arrived, or ctx is
// done, whichever comes first. A nil ctx waits unconditionally.
func (b *Barrier) Wait(ctx context.Context) error {
	if ctx == nil {
		b.wg.Wait()
		return nil
	}
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
