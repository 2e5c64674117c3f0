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
	"runtime"
	"sync"

	"github.com/botobag/hermes/host"
)

//===----------------------------------------------------------------------------------------====//
// wakeQueue
//===----------------------------------------------------------------------------------------====//

// wakeRequest is the transferable record handed to the fallback dispatch
// thread when direct redelivery is impossible: the queue to resubmit to and
// the work item to resubmit.
type wakeRequest struct {
	queue host.QueueRef
	item  host.Runnable
}

// wakeQueue is the multiple-producer, single-consumer channel between waking
// threads and the fallback dispatch thread. Push never blocks; Poll blocks
// until an element arrives or the queue is closed and drained.
type wakeQueue struct {
	mutex sync.Mutex

	// Condition variable for Poll to wait for Push. Nil once the queue is
	// closed.
	pollCond *sync.Cond

	items []wakeRequest
}

func newWakeQueue() *wakeQueue {
	queue := &wakeQueue{}
	queue.pollCond = sync.NewCond(&queue.mutex)
	return queue
}

// Push appends req. It returns errWakeQueueClosed once Close has run.
func (queue *wakeQueue) Push(req wakeRequest) error {
	mutex := &queue.mutex
	mutex.Lock()

	cond := queue.pollCond
	if cond == nil {
		mutex.Unlock()
		return errWakeQueueClosed
	}

	empty := len(queue.items) == 0
	queue.items = append(queue.items, req)
	if empty {
		cond.Signal()
	}

	mutex.Unlock()
	return nil
}

// Poll pops one element, blocking while the queue is open and empty. ok is
// false once the queue is closed and fully drained.
func (queue *wakeQueue) Poll() (req wakeRequest, ok bool) {
	mutex := &queue.mutex
	mutex.Lock()

	for len(queue.items) == 0 {
		cond := queue.pollCond
		if cond == nil {
			mutex.Unlock()
			return wakeRequest{}, false
		}
		cond.Wait()
	}

	req = queue.items[0]
	queue.items = queue.items[1:]

	mutex.Unlock()
	return req, true
}

// Close stops the queue from accepting new elements and unblocks Poll.
// Elements pushed before Close remain available until drained.
func (queue *wakeQueue) Close() {
	mutex := &queue.mutex
	mutex.Lock()

	cond := queue.pollCond
	queue.pollCond = nil
	if cond != nil {
		cond.Broadcast()
	}

	mutex.Unlock()
}

//===----------------------------------------------------------------------------------------====//
// fallbackDispatcher
//===----------------------------------------------------------------------------------------====//

// fallbackDispatcher owns the process-wide fallback dispatch thread. Its
// lifecycle is explicit: absent until the first wake needs the fallback path,
// then present until the host environment shuts down, then torn down for the
// remainder of the process. It is started at most once.
type fallbackDispatcher struct {
	mutex sync.Mutex

	// Present or torn down: queue is nil while the dispatcher is absent and
	// again once torn is set.
	queue *wakeQueue
	torn  bool
}

var fallback fallbackDispatcher

// enqueue hands req to the fallback dispatch thread, starting it on first
// use. The returned outcome is DispatchDeferred on success and
// DispatchDropped once the host has shut down.
func (dispatcher *fallbackDispatcher) enqueue(vm host.VM, req wakeRequest) (DispatchOutcome, error) {
	mutex := &dispatcher.mutex
	mutex.Lock()

	if dispatcher.torn {
		mutex.Unlock()
		return DispatchDropped, nil
	}

	if dispatcher.queue == nil {
		queue := newWakeQueue()
		dispatcher.queue = queue
		// Tear the channel down when the host environment goes away; this ends
		// the dispatch thread's receive loop once it drains.
		vm.OnShutdown(func() {
			dispatcher.teardown(queue)
		})
		go dispatcher.run(vm, queue)
	}
	queue := dispatcher.queue

	mutex.Unlock()

	if err := queue.Push(req); err != nil {
		// Torn down concurrently; the host can no longer run the item anyway.
		return DispatchDropped, nil
	}
	return DispatchDeferred, nil
}

func (dispatcher *fallbackDispatcher) teardown(queue *wakeQueue) {
	dispatcher.mutex.Lock()
	dispatcher.torn = true
	dispatcher.queue = nil
	dispatcher.mutex.Unlock()

	queue.Close()
}

// run is the body of the fallback dispatch thread. It attaches itself to the
// host environment once, then redelivers wake requests until the channel is
// closed. A failure to redeliver one request (that particular queue already
// shut down) must not stop the loop: requests for other tasks still need
// processing.
func (dispatcher *fallbackDispatcher) run(vm host.VM, queue *wakeQueue) {
	// Attachment is a property of the OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	env, err := vm.AttachCurrentThread()
	if err != nil {
		logger.Error().Err(err).Msg("fallback dispatch thread failed to attach; draining wake requests")
		for {
			if _, ok := queue.Poll(); !ok {
				return
			}
		}
	}

	for {
		req, ok := queue.Poll()
		if !ok {
			return
		}

		handle, err := NewQueueHandle(env, req.queue)
		if err != nil {
			logger.Warn().Err(err).Msg("dropping wake request: queue lookup failed")
			continue
		}
		if !handle.Submit(req.item) {
			logger.Warn().Msg("dropping wake request: queue shut down")
		}
	}
}
