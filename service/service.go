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

// Package service proxies host service lifecycle callbacks to Go handlers.
// Handlers register a factory under the host-side class name; when the host
// creates a service of that class, the factory builds the Handler instance
// that receives the lifecycle callbacks until the service is destroyed.
package service

import (
	"github.com/botobag/hermes/host"
)

// StartResult tells the host what to do with a service after its start
// callback returns. The values match the host's own constants.
type StartResult int

const (
	StartStickyCompatibility StartResult = 0
	StartSticky              StartResult = 1
	StartNotSticky           StartResult = 2
	StartRedeliverIntent     StartResult = 3
)

// StartFlags carries additional data about a start request.
type StartFlags int

const (
	// StartFlagRedelivery is set when the request is a redelivery of an intent
	// whose earlier processing did not complete.
	StartFlagRedelivery StartFlags = 1 << 0

	// StartFlagRetry is set when the request is a retry after an earlier
	// attempt never reached the service.
	StartFlagRetry StartFlags = 1 << 1
)

// A Handler receives the lifecycle callbacks of one host service instance.
// Callbacks are invoked on the host's main queue, never concurrently.
//
// Embed UnimplementedHandler to pick up the default behavior for callbacks
// the handler does not care about.
type Handler interface {
	// OnStartCommand is called for every start request. The returned
	// StartResult tells the host how to treat the service if its process dies
	// while started.
	OnStartCommand(env host.Env, intent host.Ref, flags StartFlags, startID int) StartResult

	// OnBind returns the communication channel handed to a binding client, or
	// nil to refuse the binding.
	OnBind(env host.Env, intent host.Ref) host.Ref

	// OnUnbind is called when the last client of the given intent disconnects.
	// Returning true asks the host to call OnRebind on later re-connections.
	OnUnbind(env host.Env, intent host.Ref) bool

	// OnRebind is called when a new client connects after OnUnbind returned
	// true.
	OnRebind(env host.Env, intent host.Ref)
}

// UnimplementedHandler provides the default behavior for every Handler
// callback: started services stay sticky, bindings are refused and rebind
// callbacks are not requested.
type UnimplementedHandler struct{}

var _ Handler = UnimplementedHandler{}

func (UnimplementedHandler) OnStartCommand(host.Env, host.Ref, StartFlags, int) StartResult {
	return StartSticky
}

func (UnimplementedHandler) OnBind(host.Env, host.Ref) host.Ref {
	return nil
}

func (UnimplementedHandler) OnUnbind(host.Env, host.Ref) bool {
	return false
}

func (UnimplementedHandler) OnRebind(host.Env, host.Ref) {}
