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

package spawn

import (
	"github.com/botobag/hermes/host"
	"github.com/botobag/hermes/internal/simhost"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func newNopRunnable(env host.Env) host.Runnable {
	runnable, err := env.NewRunnable(func(host.Env, host.Runnable) error {
		return nil
	})
	Expect(err).ShouldNot(HaveOccurred())
	return runnable
}

var _ = Describe("crossThreadWaker dispatch", func() {
	var (
		vm     *simhost.VM
		looper *simhost.Looper
		env    host.Env
	)

	BeforeEach(func() {
		var err error
		vm = simhost.NewVM()
		looper = vm.NewLooper()
		env, err = vm.AttachCurrentThread()
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		vm.Shutdown()
		ResetFallbackForTest()
	})

	It("delivers directly from an attached thread", func() {
		waker := &crossThreadWaker{vm: vm, queue: looper, item: newNopRunnable(env)}

		outcome, err := waker.dispatch()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(outcome).Should(Equal(DispatchDelivered))
		Expect(looper.IsIdle()).Should(BeFalse())
	})

	It("defers to the fallback dispatcher from an unattached thread", func() {
		waker := &crossThreadWaker{vm: vm, queue: looper, item: newNopRunnable(env)}

		type result struct {
			outcome DispatchOutcome
			err     error
		}
		results := make(chan result, 1)
		go func() {
			outcome, err := waker.dispatch()
			results <- result{outcome, err}
		}()

		r := <-results
		Expect(r.err).ShouldNot(HaveOccurred())
		Expect(r.outcome).Should(Equal(DispatchDeferred))

		// The dispatch thread attaches on its own and redelivers.
		Eventually(looper.IsIdle).Should(BeFalse())
	})

	It("drops the wake when the queue has shut down", func() {
		waker := &crossThreadWaker{vm: vm, queue: looper, item: newNopRunnable(env)}
		looper.Quit()

		outcome, err := waker.dispatch()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(outcome).Should(Equal(DispatchDropped))
	})

	It("drops the wake once the host has been torn down", func() {
		waker := &crossThreadWaker{vm: vm, queue: looper, item: newNopRunnable(env)}

		// Force the dispatcher to exist so that host shutdown tears it down.
		outcomes := make(chan DispatchOutcome, 1)
		go func() {
			outcome, _ := waker.dispatch()
			outcomes <- outcome
		}()
		Expect(<-outcomes).Should(Equal(DispatchDeferred))

		vm.Shutdown()

		go func() {
			outcome, _ := waker.dispatch()
			outcomes <- outcome
		}()
		Expect(<-outcomes).Should(Equal(DispatchDropped))
	})

	It("starts the fallback dispatch thread at most once", func() {
		waker := &crossThreadWaker{vm: vm, queue: looper, item: newNopRunnable(env)}

		queues := make(chan *wakeQueue, 2)
		for i := 0; i < 2; i++ {
			go func() {
				outcome, err := waker.dispatch()
				Expect(err).ShouldNot(HaveOccurred())
				Expect(outcome).Should(Equal(DispatchDeferred))

				fallback.mutex.Lock()
				queues <- fallback.queue
				fallback.mutex.Unlock()
			}()
		}

		first, second := <-queues, <-queues
		Expect(first).ShouldNot(BeNil())
		Expect(second).Should(BeIdenticalTo(first))
	})
})

var _ = Describe("fallback dispatcher", func() {
	var (
		vm  *simhost.VM
		env host.Env
	)

	BeforeEach(func() {
		var err error
		vm = simhost.NewVM()
		env, err = vm.AttachCurrentThread()
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		vm.Shutdown()
	})

	It("keeps processing wake requests after one redelivery fails", func() {
		dead := vm.NewLooper()
		dead.Quit()
		live := vm.NewLooper()

		// A private dispatcher instance; the process-wide one is exercised by
		// the waker specs.
		dispatcher := &fallbackDispatcher{}

		outcome, err := dispatcher.enqueue(vm, wakeRequest{queue: dead, item: newNopRunnable(env)})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(outcome).Should(Equal(DispatchDeferred))

		outcome, err = dispatcher.enqueue(vm, wakeRequest{queue: live, item: newNopRunnable(env)})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(outcome).Should(Equal(DispatchDeferred))

		// The dead queue's request is skipped; the live queue's still arrives.
		Eventually(live.IsIdle).Should(BeFalse())
	})
})

var _ = Describe("wakeQueue", func() {
	It("delivers requests in FIFO order", func() {
		queue := newWakeQueue()

		first := wakeRequest{queue: "a"}
		second := wakeRequest{queue: "b"}
		Expect(queue.Push(first)).Should(Succeed())
		Expect(queue.Push(second)).Should(Succeed())

		req, ok := queue.Poll()
		Expect(ok).Should(BeTrue())
		Expect(req).Should(Equal(first))

		req, ok = queue.Poll()
		Expect(ok).Should(BeTrue())
		Expect(req).Should(Equal(second))
	})

	It("unblocks a parked Poll on Close", func() {
		queue := newWakeQueue()

		done := make(chan bool, 1)
		go func() {
			_, ok := queue.Poll()
			done <- ok
		}()

		queue.Close()
		Expect(<-done).Should(BeFalse())
	})

	It("rejects Push after Close but drains pending requests", func() {
		queue := newWakeQueue()
		Expect(queue.Push(wakeRequest{queue: "a"})).Should(Succeed())

		queue.Close()
		Expect(queue.Push(wakeRequest{queue: "b"})).Should(MatchError(errWakeQueueClosed))

		req, ok := queue.Poll()
		Expect(ok).Should(BeTrue())
		Expect(req.queue).Should(Equal(host.QueueRef("a")))

		_, ok = queue.Poll()
		Expect(ok).Should(BeFalse())
	})
})
