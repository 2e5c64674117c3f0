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

// Package simhost provides a simulated host environment for tests: serial
// work queues driven one task at a time, per-goroutine attachment, closable
// work items and a capturing log facility. Goroutine identity stands in for
// thread identity; tests that model "foreign threads" simply use goroutines
// that never attach.
package simhost

import (
	"sync"

	"github.com/botobag/hermes/host"
)

// LogRecord is one message captured by the simulated log facility.
type LogRecord struct {
	Priority host.LogPriority
	Tag      string
	Message  string
}

// VM implements host.VM.
type VM struct {
	mutex     sync.Mutex
	attached  map[int64]*Env
	loopers   []*Looper
	runnables []*Runnable
	hooks     []func()
	down      bool

	logMutex    sync.Mutex
	logRecords  []LogRecord
	logMinLevel host.LogPriority
}

var _ host.VM = (*VM)(nil)

// NewVM creates a simulated host environment. Every priority is loggable
// until SetLoggable raises the threshold.
func NewVM() *VM {
	return &VM{
		attached:    make(map[int64]*Env),
		logMinLevel: host.LogVerbose,
	}
}

// Env implements host.VM.
func (vm *VM) Env() (host.Env, error) {
	vm.mutex.Lock()
	env := vm.attached[currentGoroutineID()]
	vm.mutex.Unlock()

	if env == nil {
		return nil, host.ErrDetached
	}
	return env, nil
}

// AttachCurrentThread implements host.VM.
func (vm *VM) AttachCurrentThread() (host.Env, error) {
	gid := currentGoroutineID()

	vm.mutex.Lock()
	env := vm.attached[gid]
	if env == nil {
		env = &Env{vm: vm}
		vm.attached[gid] = env
	}
	vm.mutex.Unlock()

	return env, nil
}

// OnShutdown implements host.VM.
func (vm *VM) OnShutdown(fn func()) {
	vm.mutex.Lock()
	if vm.down {
		vm.mutex.Unlock()
		fn()
		return
	}
	vm.hooks = append(vm.hooks, fn)
	vm.mutex.Unlock()
}

// Shutdown tears the simulated host down: all of its queues stop accepting
// work and the registered shutdown hooks run exactly once.
func (vm *VM) Shutdown() {
	vm.mutex.Lock()
	if vm.down {
		vm.mutex.Unlock()
		return
	}
	vm.down = true
	hooks := vm.hooks
	vm.hooks = nil
	loopers := vm.loopers
	vm.mutex.Unlock()

	for _, looper := range loopers {
		looper.Quit()
	}
	for _, hook := range hooks {
		hook()
	}
}

func (vm *VM) trackRunnable(runnable *Runnable) *Runnable {
	vm.mutex.Lock()
	vm.runnables = append(vm.runnables, runnable)
	vm.mutex.Unlock()
	return runnable
}

// Runnables returns every work item the environment has wrapped so far, in
// creation order. Tests use it to observe completion signals.
func (vm *VM) Runnables() []*Runnable {
	vm.mutex.Lock()
	runnables := make([]*Runnable, len(vm.runnables))
	copy(runnables, vm.runnables)
	vm.mutex.Unlock()
	return runnables
}

// SetLoggable sets the minimum priority IsLoggable accepts.
func (vm *VM) SetLoggable(min host.LogPriority) {
	vm.logMutex.Lock()
	vm.logMinLevel = min
	vm.logMutex.Unlock()
}

// LogRecords returns the messages captured so far.
func (vm *VM) LogRecords() []LogRecord {
	vm.logMutex.Lock()
	records := make([]LogRecord, len(vm.logRecords))
	copy(records, vm.logRecords)
	vm.logMutex.Unlock()
	return records
}

// Env implements host.Env for one attached goroutine.
type Env struct {
	vm *VM
}

var _ host.Env = (*Env)(nil)

// VM implements host.Env.
func (env *Env) VM() host.VM {
	return env.vm
}

// LookupQueue implements host.Env. Only loopers created from the same VM are
// recognized as queues.
func (env *Env) LookupQueue(ref host.QueueRef) (host.Poster, error) {
	looper, ok := ref.(*Looper)
	if !ok || looper.vm != env.vm {
		return nil, host.ErrQueueLookup
	}
	return looper, nil
}

// NewRunnable implements host.Env.
func (env *Env) NewRunnable(fn host.RunnableFunc) (host.Runnable, error) {
	return env.vm.trackRunnable(&Runnable{vm: env.vm, fn: fn}), nil
}

// NewLocalRunnable implements host.Env. The returned runnable is confined to
// the calling goroutine.
func (env *Env) NewLocalRunnable(fn host.RunnableFunc) (host.Runnable, error) {
	return env.vm.trackRunnable(&Runnable{vm: env.vm, fn: fn, local: true, owner: currentGoroutineID()}), nil
}

// Println implements host.Env.
func (env *Env) Println(priority host.LogPriority, tag, msg string) error {
	vm := env.vm
	vm.logMutex.Lock()
	vm.logRecords = append(vm.logRecords, LogRecord{Priority: priority, Tag: tag, Message: msg})
	vm.logMutex.Unlock()
	return nil
}

// IsLoggable implements host.Env.
func (env *Env) IsLoggable(tag string, priority host.LogPriority) (bool, error) {
	vm := env.vm
	vm.logMutex.Lock()
	min := vm.logMinLevel
	vm.logMutex.Unlock()
	return priority >= min, nil
}
