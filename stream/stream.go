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

// Package stream adapts sequences of host-delivered callback events into
// asynchronous sequences consumable with the future package. The producer
// side (Add, Close) is driven by host callbacks on whatever thread the host
// uses; the consumer polls futures obtained from Next, typically inside a
// task spawned on the host queue.
package stream

import (
	"errors"
	"sync"

	"github.com/botobag/hermes/future"
)

// done is defined to serve as type for Done. It allows us to define an
// immutable global variable.
type done int

// Error implements Go's error interface for "done".
func (done) Error() string {
	return "no more items in stream"
}

var _ error = done(0)

// Done is the error carried by the future returned from Next when the stream
// has been closed and fully drained.
const Done done = 0

// ErrClosed is returned by Add once the stream has been closed.
var ErrClosed = errors.New("stream: closed")

// A Stream is a multiple-producer, single-consumer sequence of items.
type Stream struct {
	mutex sync.Mutex

	items  []interface{}
	closed bool

	// Most recent waker parked by a pending Next poll.
	waker future.Waker
}

// New creates an empty, open Stream.
func New() *Stream {
	return &Stream{}
}

// Add appends one item and wakes the parked consumer, if any. It fails with
// ErrClosed once the stream has been closed.
func (stream *Stream) Add(item interface{}) error {
	stream.mutex.Lock()
	if stream.closed {
		stream.mutex.Unlock()
		return ErrClosed
	}
	stream.items = append(stream.items, item)
	waker := stream.waker
	stream.waker = nil
	stream.mutex.Unlock()

	if waker != nil {
		return waker.Wake()
	}
	return nil
}

// Close marks the end of the sequence. Items added before Close stay
// available; once drained, Next futures resolve with Done.
func (stream *Stream) Close() {
	stream.mutex.Lock()
	if stream.closed {
		stream.mutex.Unlock()
		return
	}
	stream.closed = true
	waker := stream.waker
	stream.waker = nil
	stream.mutex.Unlock()

	if waker != nil {
		_ = waker.Wake()
	}
}

// Next returns a future resolving to the next item in the sequence, or
// finishing with Done once the stream is closed and drained. The stream is
// single-consumer: at most one Next future should be pending at a time.
func (stream *Stream) Next() future.Future {
	return (*next)(stream)
}

// next implements Future over the shared Stream state.
type next Stream

// Poll implements future.Future. Only the most recent waker is retained.
func (n *next) Poll(waker future.Waker) (future.PollResult, error) {
	stream := (*Stream)(n)
	stream.mutex.Lock()

	if len(stream.items) > 0 {
		item := stream.items[0]
		stream.items = stream.items[1:]
		stream.mutex.Unlock()
		return item, nil
	}

	if stream.closed {
		stream.mutex.Unlock()
		return nil, Done
	}

	stream.waker = waker
	stream.mutex.Unlock()
	return future.PollResultPending, nil
}
