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

package spawn_test

import (
	"github.com/botobag/hermes/future"
	"github.com/botobag/hermes/host"
	"github.com/botobag/hermes/internal/simhost"
	"github.com/botobag/hermes/spawn"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Spawner", func() {
	var (
		vm     *simhost.VM
		looper *simhost.Looper
		env    host.Env
		handle *spawn.QueueHandle
	)

	BeforeEach(func() {
		var err error
		vm = simhost.NewVM()
		looper = vm.NewLooper()
		env, err = vm.AttachCurrentThread()
		Expect(err).ShouldNot(HaveOccurred())
		handle, err = spawn.NewQueueHandle(env, looper)
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		vm.Shutdown()
		spawn.ResetFallbackForTest()
	})

	It("refuses construction of a handle over something that is not a queue", func() {
		_, err := spawn.NewQueueHandle(env, "not a queue")
		Expect(err).Should(MatchError(host.ErrQueueLookup))
	})

	It("refuses construction of a handle over another host's queue", func() {
		other := simhost.NewVM()
		defer other.Shutdown()

		_, err := spawn.NewQueueHandle(env, other.NewLooper())
		Expect(err).Should(MatchError(host.ErrQueueLookup))
	})

	It("completes an immediately ready future after one drain", func() {
		polls := 0
		fut := future.Func(func(waker future.Waker) (future.PollResult, error) {
			polls++
			return "done", nil
		})

		Expect(looper.IsIdle()).Should(BeTrue())
		Expect(handle.Spawner().Spawn(fut)).Should(Succeed())

		// Spawn only defers; nothing has been polled yet.
		Expect(polls).Should(Equal(0))
		Expect(looper.IsIdle()).Should(BeFalse())

		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(polls).Should(Equal(1))
		Expect(looper.IsIdle()).Should(BeTrue())

		items := vm.Runnables()
		Expect(items).Should(HaveLen(1))
		Expect(items[0].CloseCount()).Should(Equal(1))
	})

	It("resumes a pending future woken from the queue's own thread", func() {
		oneshot := future.NewOneshot()
		receiver := oneshot.Receiver()

		stage := 0
		fut := future.Func(func(waker future.Waker) (future.PollResult, error) {
			result, err := receiver.Poll(waker)
			if err != nil {
				return nil, err
			}
			if result == future.PollResultPending {
				stage = 1
				return future.PollResultPending, nil
			}
			stage = 2
			return result, nil
		})

		Expect(handle.Spawner().Spawn(fut)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(stage).Should(Equal(1))
		Expect(looper.IsIdle()).Should(BeTrue())

		// The direct-path wake reposts the same work item.
		Expect(oneshot.Send("signal")).Should(Succeed())
		Expect(looper.IsIdle()).Should(BeFalse())

		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(stage).Should(Equal(2))
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))
	})

	It("resumes a pending future woken from an unattached thread via the fallback path", func() {
		oneshot := future.NewOneshot()
		receiver := oneshot.Receiver()

		stage := 0
		fut := future.Func(func(waker future.Waker) (future.PollResult, error) {
			result, err := receiver.Poll(waker)
			if err != nil {
				return nil, err
			}
			if result == future.PollResultPending {
				stage = 1
				return future.PollResultPending, nil
			}
			stage = 2
			return result, nil
		})

		Expect(handle.Spawner().Spawn(fut)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(stage).Should(Equal(1))

		sent := make(chan error, 1)
		go func() {
			// This goroutine never attaches to the host.
			sent <- oneshot.Send("signal")
		}()
		Expect(<-sent).ShouldNot(HaveOccurred())

		// The fallback dispatch thread redelivers asynchronously.
		Eventually(looper.IsIdle).Should(BeFalse())

		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(stage).Should(Equal(2))
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))
	})

	It("tolerates redundant wakes between two polls", func() {
		var waker future.Waker
		polls := 0
		fut := future.Func(func(w future.Waker) (future.PollResult, error) {
			polls++
			waker = w
			if polls == 1 {
				return future.PollResultPending, nil
			}
			return "done", nil
		})

		Expect(handle.Spawner().Spawn(fut)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(polls).Should(Equal(1))

		for i := 0; i < 3; i++ {
			Expect(waker.Wake()).Should(Succeed())
		}

		// One invocation per resubmission; the first completes the task and the
		// remaining two find an inert work item.
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(looper.IsIdle()).Should(BeTrue())

		Expect(polls).Should(Equal(2))
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))
	})

	It("supplies the same waker identity to every poll of one task", func() {
		var wakers []future.Waker
		fut := future.Func(func(waker future.Waker) (future.PollResult, error) {
			wakers = append(wakers, waker)
			if len(wakers) < 3 {
				return future.PollResultPending, nil
			}
			return "done", nil
		})

		Expect(handle.Spawner().Spawn(fut)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(wakers[0].Wake()).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(wakers[1].Wake()).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())

		Expect(wakers).Should(HaveLen(3))
		Expect(wakers[1]).Should(BeIdenticalTo(wakers[0]))
		Expect(wakers[2]).Should(BeIdenticalTo(wakers[0]))
	})

	It("ignores a wake that arrives after the task completed", func() {
		var waker future.Waker
		polls := 0
		fut := future.Func(func(w future.Waker) (future.PollResult, error) {
			polls++
			waker = w
			return "done", nil
		})

		Expect(handle.Spawner().Spawn(fut)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))

		// The state is released; the reposted work item is inert.
		Expect(waker.Wake()).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())

		Expect(polls).Should(Equal(1))
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))
	})

	It("reports shutdown and drops the future when the queue accepts no more work", func() {
		looper.Quit()

		polls := 0
		fut := future.Func(func(waker future.Waker) (future.PollResult, error) {
			polls++
			return "done", nil
		})

		Expect(handle.Spawner().Spawn(fut)).Should(MatchError(spawn.ErrShutdown))
		Expect(polls).Should(Equal(0))

		// The never-runnable work item must not leak its host pairing.
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))
	})
})

var _ = Describe("Spawner.SpawnLocal", func() {
	var (
		vm     *simhost.VM
		looper *simhost.Looper
		env    host.Env
		handle *spawn.QueueHandle
	)

	BeforeEach(func() {
		var err error
		vm = simhost.NewVM()
		looper = vm.NewLooper()
		env, err = vm.AttachCurrentThread()
		Expect(err).ShouldNot(HaveOccurred())
		handle, err = spawn.NewQueueHandle(env, looper)
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		vm.Shutdown()
		spawn.ResetFallbackForTest()
	})

	It("runs a thread-confined future on the owning thread", func() {
		oneshot := future.NewOneshot()
		receiver := oneshot.Receiver()

		Expect(handle.Spawner().SpawnLocal(receiver)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())

		Expect(oneshot.Send("signal")).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(vm.Runnables()[0].CloseCount()).Should(Equal(1))
	})

	It("fails with a local-thread violation when re-dispatch lands on a foreign thread", func() {
		oneshot := future.NewOneshot()
		receiver := oneshot.Receiver()

		polls := 0
		fut := future.Func(func(waker future.Waker) (future.PollResult, error) {
			polls++
			return receiver.Poll(waker)
		})

		Expect(handle.Spawner().SpawnLocal(fut)).Should(Succeed())
		Expect(looper.RunOneTask()).Should(Succeed())
		Expect(polls).Should(Equal(1))

		Expect(oneshot.Send("signal")).Should(Succeed())

		// Another attached thread draining the queue is the wrong thread for a
		// thread-confined task: the violation surfaces there instead of
		// migrating the future.
		ran := make(chan error, 1)
		go func() {
			if _, err := vm.AttachCurrentThread(); err != nil {
				ran <- err
				return
			}
			ran <- looper.RunOneTask()
		}()
		Expect(<-ran).Should(MatchError(host.ErrLocalThread))
		Expect(polls).Should(Equal(1))
	})
})
