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

// Looper is a simulated serial work queue. It does not own a thread; tests
// drive it explicitly with RunOneTask from an attached goroutine, which is
// what makes execution serial.
type Looper struct {
	vm *VM

	mutex sync.Mutex
	items []*Runnable
	quit  bool
}

var _ host.Poster = (*Looper)(nil)

// NewLooper creates a queue owned by vm.
func (vm *VM) NewLooper() *Looper {
	looper := &Looper{vm: vm}
	vm.mutex.Lock()
	vm.loopers = append(vm.loopers, looper)
	vm.mutex.Unlock()
	return looper
}

// Post implements host.Poster. It returns false once the looper has quit.
func (looper *Looper) Post(item host.Runnable) bool {
	runnable, ok := item.(*Runnable)
	if !ok {
		return false
	}

	looper.mutex.Lock()
	if looper.quit {
		looper.mutex.Unlock()
		return false
	}
	looper.items = append(looper.items, runnable)
	looper.mutex.Unlock()
	return true
}

// IsIdle reports whether no work item is pending.
func (looper *Looper) IsIdle() bool {
	looper.mutex.Lock()
	idle := len(looper.items) == 0
	looper.mutex.Unlock()
	return idle
}

// RunOneTask pops and runs at most one work item on the calling goroutine,
// which must be attached to the VM, and returns the work item's error. It
// returns nil when the queue is idle.
func (looper *Looper) RunOneTask() error {
	looper.mutex.Lock()
	if len(looper.items) == 0 {
		looper.mutex.Unlock()
		return nil
	}
	item := looper.items[0]
	looper.items = looper.items[1:]
	looper.mutex.Unlock()

	env, err := looper.vm.Env()
	if err != nil {
		return err
	}
	return item.run(env.(*Env))
}

// Quit permanently shuts the looper down; pending items are discarded and
// further posts return false.
func (looper *Looper) Quit() {
	looper.mutex.Lock()
	looper.quit = true
	looper.items = nil
	looper.mutex.Unlock()
}
