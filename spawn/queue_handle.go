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

// Package spawn runs futures to completion on a foreign host environment's
// serial work queue. Tasks spawned here always resume on the host queue's own
// thread; wake-ups may come from any thread, including threads with no
// attachment to the host environment at all, in which case they are
// redelivered through a process-wide fallback dispatch thread.
package spawn

import (
	"github.com/botobag/hermes/host"
)

// QueueHandle wraps a reference to one host serial work queue together with
// its cached dispatch entry point. The queue lookup is performed once, at
// construction, rather than on every submission.
type QueueHandle struct {
	env   host.Env
	queue host.QueueRef
	post  host.Poster
}

// NewQueueHandle resolves queue through env and returns a handle for
// submitting work items to it. It fails (with an error wrapping
// host.ErrQueueLookup) if the host does not expose the expected queue type
// behind queue.
func NewQueueHandle(env host.Env, queue host.QueueRef) (*QueueHandle, error) {
	post, err := env.LookupQueue(queue)
	if err != nil {
		return nil, err
	}
	return &QueueHandle{
		env:   env,
		queue: queue,
		post:  post,
	}, nil
}

// Submit hands item to the host queue. It returns false, without side
// effects, once the queue has been shut down; the item can then never run
// again, and callers propagate a shutdown error rather than retry.
func (handle *QueueHandle) Submit(item host.Runnable) bool {
	return handle.post.Post(item)
}

// Queue returns the reference this handle submits to.
func (handle *QueueHandle) Queue() host.QueueRef {
	return handle.queue
}

// Spawner returns an object that spawns futures onto this handle's queue.
func (handle *QueueHandle) Spawner() *Spawner {
	return &Spawner{handle: handle}
}
