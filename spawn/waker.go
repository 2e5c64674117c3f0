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

package spawn

import (
	"github.com/botobag/hermes/future"
	"github.com/botobag/hermes/host"
)

// DispatchOutcome reports how a wake was delivered.
type DispatchOutcome int

const (
	// DispatchDelivered: the work item was posted straight to the host queue
	// from the waking thread.
	DispatchDelivered DispatchOutcome = iota

	// DispatchDeferred: the waking thread cannot reach the host environment;
	// the wake was handed to the fallback dispatch thread.
	DispatchDeferred

	// DispatchDropped: neither path can deliver (host shut down). The wake is
	// discarded; a shut-down host can never run the work item anyway.
	DispatchDropped
)

// crossThreadWaker implements future.Waker for one spawned task. Waking it
// resubmits the task's own work item to its queue so that the host performs
// another poll.
//
// Wake may be called from any thread, any number of times, concurrently, and
// after the task has completed. It captures the queue reference and the work
// item identity only -- never the task state -- so a wake that loses the race
// with completion at worst reposts an item the host already treats as inert.
type crossThreadWaker struct {
	vm    host.VM
	queue host.QueueRef
	item  host.Runnable
}

var _ future.Waker = (*crossThreadWaker)(nil)

// Wake implements future.Waker.
func (waker *crossThreadWaker) Wake() error {
	_, err := waker.dispatch()
	return err
}

// dispatch chooses between the two delivery paths. Whether the calling thread
// can reach the host directly is a runtime fact, so the choice is made per
// call.
func (waker *crossThreadWaker) dispatch() (DispatchOutcome, error) {
	if env, err := waker.vm.Env(); err == nil {
		// Direct path: the calling thread is attached. Resolve a fresh handle
		// from this thread's perspective and post.
		handle, err := NewQueueHandle(env, waker.queue)
		if err != nil {
			return DispatchDropped, err
		}
		if handle.Submit(waker.item) {
			return DispatchDelivered, nil
		}
		// Queue shut down; it can never run the item.
		return DispatchDropped, nil
	}

	// Fallback path: no standing relationship with the host environment.
	return fallback.enqueue(waker.vm, wakeRequest{queue: waker.queue, item: waker.item})
}
