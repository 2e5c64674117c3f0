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
	"errors"
	"sync"

	"github.com/botobag/hermes/host"
)

// A Factory builds the Handler for one newly created service instance. It
// runs during the host's create callback; service is the host-side service
// object the instance belongs to.
type Factory func(env host.Env, service host.Ref) (Handler, error)

var (
	// ErrRegistered is returned by Register when the class already has a
	// factory.
	ErrRegistered = errors.New("service: class already registered")

	// ErrNotRegistered is returned by Create when no factory is registered for
	// the class.
	ErrNotRegistered = errors.New("service: class not registered")

	// ErrNoInstance is returned when a lifecycle callback arrives for a
	// service object with no live Handler (never created, or already
	// destroyed).
	ErrNoInstance = errors.New("service: no live instance for service object")
)

// A Registry maps host-side service class names to factories and tracks the
// live Handler per service object. The zero value is ready to use; most
// programs use the package-level functions backed by the default registry.
//
// Service objects are used as map keys and must be comparable.
type Registry struct {
	mutex     sync.Mutex
	factories map[string]Factory
	instances map[host.Ref]Handler
}

// Register installs the factory for a class. It fails with ErrRegistered if
// the class already has one.
func (registry *Registry) Register(class string, factory Factory) error {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	if _, exists := registry.factories[class]; exists {
		return ErrRegistered
	}
	if registry.factories == nil {
		registry.factories = map[string]Factory{}
	}
	registry.factories[class] = factory
	return nil
}

// Unregister removes the factory for a class. Live instances created from it
// are unaffected. Unregistering an unknown class is a no-op.
func (registry *Registry) Unregister(class string) {
	registry.mutex.Lock()
	delete(registry.factories, class)
	registry.mutex.Unlock()
}

// Create runs the class's factory and installs the returned Handler as the
// live instance for the service object. The host invokes this from the
// service's create callback.
func (registry *Registry) Create(env host.Env, class string, service host.Ref) error {
	registry.mutex.Lock()
	factory, exists := registry.factories[class]
	registry.mutex.Unlock()
	if !exists {
		return ErrNotRegistered
	}

	// The factory runs without the registry lock so it may register or create
	// further services.
	handler, err := factory(env, service)
	if err != nil {
		return err
	}

	registry.mutex.Lock()
	if registry.instances == nil {
		registry.instances = map[host.Ref]Handler{}
	}
	registry.instances[service] = handler
	registry.mutex.Unlock()
	return nil
}

// Destroy releases the live Handler for the service object. The host invokes
// this from the service's destroy callback.
func (registry *Registry) Destroy(service host.Ref) error {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	if _, exists := registry.instances[service]; !exists {
		return ErrNoInstance
	}
	delete(registry.instances, service)
	return nil
}

// handler looks up the live instance for a service object.
func (registry *Registry) handler(service host.Ref) (Handler, error) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	handler, exists := registry.instances[service]
	if !exists {
		return nil, ErrNoInstance
	}
	return handler, nil
}

//===----------------------------------------------------------------------===//
// Dispatch side: the host's lifecycle callbacks funnel through these.
//===----------------------------------------------------------------------===//

// StartCommand forwards a start request to the service's Handler.
func (registry *Registry) StartCommand(
	env host.Env, service host.Ref, intent host.Ref, flags StartFlags, startID int) (StartResult, error) {
	handler, err := registry.handler(service)
	if err != nil {
		return StartNotSticky, err
	}
	return handler.OnStartCommand(env, intent, flags, startID), nil
}

// Bind forwards a bind request to the service's Handler.
func (registry *Registry) Bind(env host.Env, service host.Ref, intent host.Ref) (host.Ref, error) {
	handler, err := registry.handler(service)
	if err != nil {
		return nil, err
	}
	return handler.OnBind(env, intent), nil
}

// Unbind forwards an unbind notification to the service's Handler.
func (registry *Registry) Unbind(env host.Env, service host.Ref, intent host.Ref) (bool, error) {
	handler, err := registry.handler(service)
	if err != nil {
		return false, err
	}
	return handler.OnUnbind(env, intent), nil
}

// Rebind forwards a rebind notification to the service's Handler.
func (registry *Registry) Rebind(env host.Env, service host.Ref, intent host.Ref) error {
	handler, err := registry.handler(service)
	if err != nil {
		return err
	}
	handler.OnRebind(env, intent)
	return nil
}

//===----------------------------------------------------------------------===//
// Default registry
//===----------------------------------------------------------------------===//

var defaultRegistry Registry

// Register installs a factory in the default registry.
func Register(class string, factory Factory) error {
	return defaultRegistry.Register(class, factory)
}

// Unregister removes a factory from the default registry.
func Unregister(class string) {
	defaultRegistry.Unregister(class)
}

// Create creates the Handler instance for a service object in the default
// registry.
func Create(env host.Env, class string, service host.Ref) error {
	return defaultRegistry.Create(env, class, service)
}

// Destroy releases a service object's Handler from the default registry.
func Destroy(service host.Ref) error {
	return defaultRegistry.Destroy(service)
}

// StartCommand dispatches through the default registry.
func StartCommand(
	env host.Env, service host.Ref, intent host.Ref, flags StartFlags, startID int) (StartResult, error) {
	return defaultRegistry.StartCommand(env, service, intent, flags, startID)
}

// Bind dispatches through the default registry.
func Bind(env host.Env, service host.Ref, intent host.Ref) (host.Ref, error) {
	return defaultRegistry.Bind(env, service, intent)
}

// Unbind dispatches through the default registry.
func Unbind(env host.Env, service host.Ref, intent host.Ref) (bool, error) {
	return defaultRegistry.Unbind(env, service, intent)
}

// Rebind dispatches through the default registry.
func Rebind(env host.Env, service host.Ref, intent host.Ref) error {
	return defaultRegistry.Rebind(env, service, intent)
}
