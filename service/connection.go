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

package service

import (
	"github.com/botobag/hermes/future"
	"github.com/botobag/hermes/host"
	"github.com/botobag/hermes/stream"
)

// A ConnectionEvent is one callback observed on a service connection. The
// concrete types are Connected, Disconnected, BindingDied and NullBinding.
type ConnectionEvent interface {
	// Component returns the host-side name of the service the event concerns.
	Component() host.Ref
}

// Connected reports that the connection to the service has been established.
type Connected struct {
	Name   host.Ref
	Binder host.Ref
}

// Disconnected reports that the connection was lost, typically because the
// service's process crashed. The binding itself remains active and a later
// Connected event follows if the service comes back.
type Disconnected struct {
	Name host.Ref
}

// BindingDied reports that the binding itself is dead and will not recover.
type BindingDied struct {
	Name host.Ref
}

// NullBinding reports that the service refused the binding.
type NullBinding struct {
	Name host.Ref
}

func (event Connected) Component() host.Ref    { return event.Name }
func (event Disconnected) Component() host.Ref { return event.Name }
func (event BindingDied) Component() host.Ref  { return event.Name }
func (event NullBinding) Component() host.Ref  { return event.Name }

// A Connection adapts service connection callbacks into an asynchronous
// sequence of ConnectionEvents. The callback methods are handed to the host
// as the connection object; the owner consumes events through Next.
type Connection struct {
	events *stream.Stream
}

// NewConnection creates a Connection with no events yet.
func NewConnection() *Connection {
	return &Connection{events: stream.New()}
}

// OnServiceConnected records a Connected event.
func (conn *Connection) OnServiceConnected(name host.Ref, binder host.Ref) {
	_ = conn.events.Add(Connected{Name: name, Binder: binder})
}

// OnServiceDisconnected records a Disconnected event.
func (conn *Connection) OnServiceDisconnected(name host.Ref) {
	_ = conn.events.Add(Disconnected{Name: name})
}

// OnBindingDied records a BindingDied event.
func (conn *Connection) OnBindingDied(name host.Ref) {
	_ = conn.events.Add(BindingDied{Name: name})
}

// OnNullBinding records a NullBinding event.
func (conn *Connection) OnNullBinding(name host.Ref) {
	_ = conn.events.Add(NullBinding{Name: name})
}

// Next returns a future resolving to the next ConnectionEvent, or finishing
// with stream.Done after Close.
func (conn *Connection) Next() future.Future {
	return conn.events.Next()
}

// Close ends the event sequence, typically after the host unbinds the
// connection. Events recorded before Close stay consumable.
func (conn *Connection) Close() {
	conn.events.Close()
}
