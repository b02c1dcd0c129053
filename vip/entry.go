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

package vip

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
)

// Entry is one VIP: a resolved IP address and the HTTP connection manager
// bound to it. At most one Entry exists per distinct IP at any time.
type Entry struct {
	ip        string
	transport *http.Transport

	active  atomic.Bool
	refCnt  atomic.Int64
	onEmpty func(ip string)
}

// newEntry builds the VIP's connection manager: a *http.Transport whose
// DialContext overrides the requested host with ip while preserving the
// requested port, pinning every connection made through it to this VIP.
func newEntry(ip string, cfg TransportConfig, onEmpty func(ip string)) *Entry {
	e := &Entry{ip: ip, onEmpty: onEmpty}

	dialer := &net.Dialer{
		Timeout:   cfg.TimeoutGlobal.Time(),
		KeepAlive: cfg.TimeoutKeepAlive.Time(),
	}

	e.transport = &http.Transport{
		TLSClientConfig:       cfg.TLSConfig,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		TLSHandshakeTimeout:   cfg.TimeoutTLSHandshake.Time(),
		ExpectContinueTimeout: cfg.TimeoutExpectContinue.Time(),
		IdleConnTimeout:       cfg.TimeoutIdleConn.Time(),
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			_, port, err := net.SplitHostPort(addr)
			if err != nil {
				port = "443"
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
		},
	}

	e.active.Store(true)
	return e
}

// IP returns the entry's resolved address.
func (e *Entry) IP() string {
	if e == nil {
		return ""
	}
	return e.ip
}

// Active reports whether the VIP is still eligible for dispatch.
func (e *Entry) Active() bool {
	if e == nil {
		return false
	}
	return e.active.Load()
}

// Deactivate clears the active flag; no new requests may be assigned
// afterward, but outstanding references are left to drain.
func (e *Entry) Deactivate() {
	if e == nil {
		return
	}
	e.active.Store(false)
	e.maybeTeardown()
}

// Transport returns the per-VIP HTTP transport.
func (e *Entry) Transport() *http.Transport {
	if e == nil {
		return nil
	}
	return e.transport
}

// Acquire increments the VIP's internal reference count.
func (e *Entry) Acquire() {
	if e == nil {
		return
	}
	e.refCnt.Add(1)
}

// Release decrements the VIP's internal reference count; once it reaches
// zero and the VIP is inactive, the connection manager is closed.
func (e *Entry) Release() {
	if e == nil {
		return
	}
	e.refCnt.Add(-1)
	e.maybeTeardown()
}

func (e *Entry) maybeTeardown() {
	if e.active.Load() || e.refCnt.Load() > 0 {
		return
	}

	if e.transport != nil {
		e.transport.CloseIdleConnections()
	}

	if e.onEmpty != nil {
		e.onEmpty(e.ip)
	}
}
