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

// Package future provides the cooperative task model driven by the hermes
// bridge: a Future is polled to advance, and registers a Waker to request the
// next poll when it cannot make progress.
package future

// A Future represents an asynchronous computation.
//
// A Future is a value that may not have finished computing yet. Futures alone
// are inert; they must be actively polled to make progress. The Poll method is
// not called in a tight loop -- it is called once, and then again only after
// the Waker supplied to the previous call has been woken.
//
// An implementation of Poll must never block. Work that is known to take a
// while belongs on a separate worker which wakes the stored Waker when the
// result is available.
type Future interface {
	// Poll attempts to resolve the future to a final value, registering waker
	// for wakeup if the value is not yet available.
	//
	// Poll returns a pair of (PollResult, error):
	//
	//	* (_, err): the future finished with the error err.
	//	* (PollResultPending, nil): the future is not ready yet.
	//	* ([any other value], nil): the future finished with a value.
	//
	// Once a future has finished, callers must not poll it again.
	//
	// When the future is not ready yet, Poll returns PollResultPending and
	// stores waker to be woken once the future can make progress. On multiple
	// calls to Poll, only the most recent waker passed should be scheduled to
	// receive a wakeup.
	Poll(waker Waker) (PollResult, error)
}
