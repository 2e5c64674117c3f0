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

package service_test

import (
	"github.com/botobag/hermes/future"
	"github.com/botobag/hermes/host"
	"github.com/botobag/hermes/service"
	"github.com/botobag/hermes/stream"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Connection", func() {
	var conn *service.Connection

	BeforeEach(func() {
		conn = service.NewConnection()
	})

	It("yields events in callback order", func() {
		conn.OnServiceConnected("svc", "binder")
		conn.OnServiceDisconnected("svc")
		conn.OnServiceConnected("svc", "binder2")
		conn.OnBindingDied("svc")

		event, err := future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.Connected{Name: "svc", Binder: "binder"}))

		event, err = future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.Disconnected{Name: "svc"}))

		event, err = future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.Connected{Name: "svc", Binder: "binder2"}))

		event, err = future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.BindingDied{Name: "svc"}))
	})

	It("reports a refused binding", func() {
		conn.OnNullBinding("svc")

		event, err := future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.NullBinding{Name: "svc"}))
		Expect(event.(service.ConnectionEvent).Component()).Should(Equal(host.Ref("svc")))
	})

	It("wakes a parked consumer when a callback arrives", func() {
		go conn.OnServiceConnected("svc", "binder")

		event, err := future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.Connected{Name: "svc", Binder: "binder"}))
	})

	It("finishes with the stream's end sentinel after Close", func() {
		conn.OnServiceDisconnected("svc")
		conn.Close()

		event, err := future.BlockOn(conn.Next())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(event).Should(Equal(service.Disconnected{Name: "svc"}))

		_, err = future.BlockOn(conn.Next())
		Expect(err).Should(MatchError(stream.Done))
	})
})
