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

package host

import "errors"

var (
	// ErrDetached is returned by VM.Env when the calling thread is not attached
	// to the host environment.
	ErrDetached = errors.New("host: current thread is not attached")

	// ErrQueueLookup is returned by Env.LookupQueue when the host does not
	// expose the expected queue type behind the given reference. It is fatal to
	// queue handle construction and not recoverable.
	ErrQueueLookup = errors.New("host: queue type not exposed")

	// ErrLocalThread is reported when a thread-confined runnable is invoked
	// from a thread that does not own it. It surfaces where the misdirected
	// invocation happens, as the work item's error, so callers can detect
	// wrong-thread bugs instead of silently migrating work.
	ErrLocalThread = errors.New("host: runnable invoked outside its owning thread")
)
