/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package client_test

import (
	"github.com/nabbar/s3transfer/client"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("rejects an empty VirtualHost", func() {
		cfg := testConfig()
		cfg.VirtualHost = ""
		_, err := client.New(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a nil AWS config", func() {
		cfg := testConfig()
		cfg.AWS = nil
		_, err := client.New(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("wires a Client from a valid Config", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())
		Expect(c).ToNot(BeNil())
		Expect(c.IsActive()).To(BeFalse())
	})
})

var _ = Describe("Client lifecycle", func() {
	It("becomes active on Start and inactive once every handle is released", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())

		Expect(c.Start(globalCtx)).To(Succeed())
		Expect(c.IsActive()).To(BeTrue())

		Eventually(func() bool {
			return c.Release() == nil
		}, "1s", "5ms").Should(BeTrue())

		Eventually(c.IsActive, "1s", "5ms").Should(BeFalse())
	})

	It("fires ShutdownCallback exactly once, after internal teardown completes", func() {
		done := make(chan struct{}, 2)
		cfg := testConfig()
		cfg.ShutdownCallback = func() { done <- struct{}{} }

		c, err := client.New(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Start(globalCtx)).To(Succeed())
		Expect(c.Release()).To(Succeed())

		Eventually(done, "1s", "5ms").Should(Receive())
		Consistently(done, "50ms", "5ms").ShouldNot(Receive())
	})

	It("rejects a second Release once the external refcount has reached zero", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Start(globalCtx)).To(Succeed())

		Expect(c.Release()).To(Succeed())
		Expect(c.Release()).To(HaveOccurred())
	})

	It("keeps the client alive across an extra Acquire until every handle releases", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Start(globalCtx)).To(Succeed())

		c.Acquire()
		Expect(c.Release()).To(Succeed())
		Expect(c.IsActive()).To(BeTrue())

		Expect(c.Release()).To(Succeed())
		Eventually(c.IsActive, "1s", "5ms").Should(BeFalse())
	})
})

var _ = Describe("Get/Put before Start", func() {
	It("rejects Get on an unstarted client", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())

		err = c.Get(client.GetRequest{Path: "/obj", OnComplete: func(error) {}})
		Expect(err).To(HaveOccurred())
	})

	It("rejects Put on an unstarted client", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())

		err = c.Put(client.PutRequest{
			Path:         "/obj",
			NextPartBody: func(int64, int64) ([]byte, error) { return nil, nil },
			OnComplete:   func(error) {},
		})
		Expect(err).To(HaveOccurred())
	})

	It("rejects Get missing a Path even once started", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Start(globalCtx)).To(Succeed())
		defer c.Release()

		Expect(c.Get(client.GetRequest{})).To(HaveOccurred())
	})

	It("rejects Put missing NextPartBody even once started", func() {
		c, err := client.New(testConfig())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Start(globalCtx)).To(Succeed())
		defer c.Release()

		Expect(c.Put(client.PutRequest{Path: "/obj"})).To(HaveOccurred())
	})
})
