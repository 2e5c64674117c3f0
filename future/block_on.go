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

package future

// BlockOn polls f on the calling goroutine until it finishes, parking between
// polls until the supplied waker is woken. It is intended for tests and for
// synchronous code at the edge of an asynchronous system; it must never be
// called from a Poll implementation.
func BlockOn(f Future) (PollResult, error) {
	// Buffered so that a wake arriving while the poll is still running does not
	// block the waking goroutine.
	wakeups := make(chan struct{}, 1)

	waker := WakerFunc(func() error {
		select {
		case wakeups <- struct{}{}:
		default:
			// A wakeup is already queued; one poll observes both.
		}
		return nil
	})

	for {
		result, err := f.Poll(waker)
		if err != nil {
			return nil, err
		}
		if result != PollResultPending {
			return result, nil
		}
		<-wakeups
	}
}
