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

//===----------------------------------------------------------------------------------------====//
// Spawner
//===----------------------------------------------------------------------------------------====//

// A Spawner wraps futures into host work items and submits them to one host
// queue. Obtain one from QueueHandle.Spawner.
type Spawner struct {
	handle *QueueHandle
}

// Spawn submits fut for execution on the host queue. fut must be safe to move
// to the queue's thread: it is polled there, which in general is a different
// thread than the one calling Spawn. Spawn returns immediately; the first
// poll happens when the host queue gets around to the work item.
//
// If the queue has already been shut down, Spawn returns ErrShutdown and fut
// is dropped without ever being polled.
func (spawner *Spawner) Spawn(fut future.Future) error {
	driver := &pollDriver{
		queue: spawner.handle.queue,
		fut:   fut,
	}
	item, err := spawner.handle.env.NewRunnable(driver.drive)
	if err != nil {
		return err
	}
	return spawner.submit(item)
}

// SpawnLocal submits fut for execution on the host queue, restricted to the
// thread that currently owns the queue context. If a wake later causes the
// work item to run on any other thread, the invocation fails with
// host.ErrLocalThread instead of silently migrating fut.
func (spawner *Spawner) SpawnLocal(fut future.Future) error {
	driver := &pollDriver{
		queue: spawner.handle.queue,
		fut:   fut,
	}
	item, err := spawner.handle.env.NewLocalRunnable(driver.drive)
	if err != nil {
		return err
	}
	return spawner.submit(item)
}

func (spawner *Spawner) submit(item host.Runnable) error {
	if !spawner.handle.Submit(item) {
		// The task can never run. Release the host-side pairing so the driver
		// and its future are dropped rather than leaked.
		_ = item.Close()
		return ErrShutdown
	}
	return nil
}

//===----------------------------------------------------------------------------------------====//
// pollDriver
//===----------------------------------------------------------------------------------------====//

// pollDriver advances one spawned future. Exactly one instance exists per
// task; drive is only ever invoked by the host queue, whose serial-execution
// guarantee makes the invocations mutually exclusive without a lock. A wake
// arriving mid-poll merely queues the work item behind the running one.
type pollDriver struct {
	queue host.QueueRef

	// The task state. Released in place by finish when the future resolves.
	fut future.Future

	// The waker cell. Written once, on the first invocation, by this driver on
	// the queue's thread; read without synchronization thereafter. Every poll
	// of the task observes the same waker identity.
	waker future.Waker

	done bool
}

// drive performs exactly one poll of the future. It is the body of the host
// work item built by Spawn/SpawnLocal.
func (driver *pollDriver) drive(env host.Env, self host.Runnable) error {
	if driver.done {
		// A wake raced completion and reposted the work item; the state is
		// already released.
		return nil
	}

	if driver.waker == nil {
		driver.waker = &crossThreadWaker{
			vm:    env.VM(),
			queue: driver.queue,
			item:  self,
		}
	}

	result, err := driver.fut.Poll(driver.waker)
	if err != nil {
		// The future resolved with an error. Drop the state, fire the
		// completion signal, and let the host queue deal with the error the way
		// it deals with any failing work item.
		driver.finish(self)
		return err
	}
	if result == future.PollResultPending {
		// Dormant until a wake through driver.waker resubmits self.
		return nil
	}

	driver.finish(self)
	return nil
}

// finish releases the task state and fires the completion signal on the work
// item's host identity. No further wake can reach the dropped state: the
// waker holds only the runnable, which the host treats as inert once closed.
func (driver *pollDriver) finish(self host.Runnable) {
	driver.fut = nil
	driver.waker = nil
	driver.done = true
	_ = self.Close()
}
