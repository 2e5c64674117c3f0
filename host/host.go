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

// Package host defines the contracts hermes requires from a foreign host
// environment: a serial work queue that runs opaque work items, per-thread
// attachment to the environment, shutdown notification, and a logging
// facility.
//
// Implementations live outside this module (a cgo binding to a UI toolkit, an
// embedded VM, ...); the bridge only ever talks to these interfaces. A
// simulated implementation for tests is provided in internal/simhost.
package host

// A QueueRef identifies one serial work queue instance owned by the host. It
// is reference-counted (or garbage-collected) on the host side,
// thread-shareable, and compared by identity, never by value.
type QueueRef interface{}

// A Ref is an opaque reference to an arbitrary host object.
type Ref interface{}

// A Runnable is an opaque, single-invocation work item constructed by the
// host around a native closure. The host queue takes ownership of it on
// submission and invokes it at most once, on its own serial thread, at an
// unspecified future time -- or never, if the queue is shut down first.
//
// Close releases the host-side resources paired with the runnable. Invoking a
// runnable after Close is a no-op on the host side.
type Runnable interface {
	Close() error
}

// RunnableFunc is the native closure wrapped by Env.NewRunnable. The host
// invokes it with the environment of the invoking thread and with the
// runnable's own host-visible identity, which is what a waker resubmits to
// trigger another invocation.
type RunnableFunc func(env Env, self Runnable) error

// A Poster is the cached dispatch entry point of one queue, resolved once by
// Env.LookupQueue.
type Poster interface {
	// Post submits item to the queue. It is callable from any thread holding a
	// valid reference, preserves FIFO order per calling thread, and returns
	// false once the queue has been permanently shut down.
	Post(item Runnable) bool
}

// LogPriority is a host logging priority.
type LogPriority int

// Host logging priorities, in increasing severity.
const (
	LogVerbose LogPriority = 2
	LogDebug   LogPriority = 3
	LogInfo    LogPriority = 4
	LogWarn    LogPriority = 5
	LogError   LogPriority = 6
	LogAssert  LogPriority = 7
)

// An Env is one thread's capability to interact with the host environment. An
// Env must only be used on the thread it was obtained on.
type Env interface {
	// VM returns the process-wide handle to the host environment. Unlike the
	// Env itself, the returned VM may be shared freely across threads.
	VM() VM

	// LookupQueue resolves ref into the queue's dispatch entry point. The
	// lookup is the expensive part of talking to a host queue; callers cache
	// the returned Poster rather than resolving per submission. LookupQueue
	// fails with ErrQueueLookup if the host does not expose the expected queue
	// type behind ref.
	LookupQueue(ref QueueRef) (Poster, error)

	// NewRunnable wraps fn as a host work item. The returned runnable may be
	// invoked on any host thread.
	NewRunnable(fn RunnableFunc) (Runnable, error)

	// NewLocalRunnable wraps fn as a thread-confined host work item: invoking
	// it from any thread other than the one that created it fails with
	// ErrLocalThread instead of running fn.
	NewLocalRunnable(fn RunnableFunc) (Runnable, error)

	// Println writes one message to the host logging facility.
	Println(priority LogPriority, tag, msg string) error

	// IsLoggable reports whether the host would accept a message logged with
	// the given tag and priority.
	IsLoggable(tag string, priority LogPriority) (bool, error)
}

// A VM is the process-wide, thread-shareable handle to the host environment.
type VM interface {
	// Env returns the calling thread's attachment to the host environment, or
	// ErrDetached if the thread has no standing relationship with it.
	Env() (Env, error)

	// AttachCurrentThread attaches the calling thread to the host environment
	// and returns its Env. Attaching an already-attached thread returns the
	// existing Env.
	AttachCurrentThread() (Env, error)

	// OnShutdown registers fn to be invoked exactly once when the host
	// environment is tearing down. Registration after teardown invokes fn
	// immediately.
	OnShutdown(fn func())
}
