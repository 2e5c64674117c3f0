/**
 * Copyright (c) 2021, The Hermes Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package simhost

import (
	"sync"

	"github.com/botobag/hermes/host"
)

// Runnable implements host.Runnable around a native closure. A closed
// runnable stays postable but running it is a no-op, mirroring how a real
// host treats a work item whose native pairing has been released.
type Runnable struct {
	vm *VM
	fn host.RunnableFunc

	// Thread confinement for local runnables.
	local bool
	owner int64

	mutex      sync.Mutex
	closed     bool
	closeCount int
}

var _ host.Runnable = (*Runnable)(nil)

func (runnable *Runnable) run(env *Env) error {
	runnable.mutex.Lock()
	closed := runnable.closed
	runnable.mutex.Unlock()

	if closed {
		return nil
	}
	if runnable.local && runnable.owner != currentGoroutineID() {
		return host.ErrLocalThread
	}
	return runnable.fn(env, runnable)
}

// Close implements host.Runnable.
func (runnable *Runnable) Close() error {
	runnable.mutex.Lock()
	runnable.closed = true
	runnable.closeCount++
	runnable.mutex.Unlock()
	return nil
}

// CloseCount returns how many times Close has been called. The bridge fires
// the completion signal through Close, so tests assert on this counter.
func (runnable *Runnable) CloseCount() int {
	runnable.mutex.Lock()
	count := runnable.closeCount
	runnable.mutex.Unlock()
	return count
}
