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

import (
	"errors"
	"sync"
)

// ErrOneshotSent is returned by Oneshot.Send when the value has already been
// sent.
var ErrOneshotSent = errors.New("future: oneshot already sent")

// Oneshot is a single-use signal shared between one producer and one
// consumer: the producer calls Send once, from any goroutine; the consumer
// polls the Future obtained from Receiver until it resolves to the sent
// value.
type Oneshot struct {
	mutex sync.Mutex

	// Most recent waker stored by a pending poll; nil when no poll is parked.
	waker Waker

	value PollResult
	sent  bool
}

// NewOneshot creates an unsent Oneshot.
func NewOneshot() *Oneshot {
	return &Oneshot{}
}

// Send resolves the oneshot with the given value and wakes the receiver if it
// is parked. The second and any further Send fails with ErrOneshotSent.
func (o *Oneshot) Send(value PollResult) error {
	o.mutex.Lock()
	if o.sent {
		o.mutex.Unlock()
		return ErrOneshotSent
	}
	o.value = value
	o.sent = true
	waker := o.waker
	o.waker = nil
	o.mutex.Unlock()

	if waker != nil {
		return waker.Wake()
	}
	return nil
}

// Receiver returns the Future half of the oneshot. The future resolves to the
// value passed to Send.
func (o *Oneshot) Receiver() Future {
	return (*oneshotReceiver)(o)
}

// oneshotReceiver implements Future over the shared Oneshot state.
type oneshotReceiver Oneshot

// Poll implements future.Future. Only the most recent waker is retained.
func (r *oneshotReceiver) Poll(waker Waker) (PollResult, error) {
	o := (*Oneshot)(r)
	o.mutex.Lock()
	if o.sent {
		value := o.value
		o.mutex.Unlock()
		return value, nil
	}
	o.waker = waker
	o.mutex.Unlock()
	return PollResultPending, nil
}
