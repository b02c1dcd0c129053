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

// Package conn owns the bounded set of long-lived HTTP connections handed
// out per VIP. A VIP-connection is acquired from the idle list, used for
// exactly one request, and either returned to idle or retired (request
// limit reached, protocol error, server-initiated close) depending on the
// outcome; retirement is asynchronous and never blocks the caller.
package conn

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	libdur "github.com/nabbar/s3transfer/duration"
	"github.com/nabbar/s3transfer/runner/ticker"
	"github.com/nabbar/s3transfer/vip"
)

// RetireReason classifies why a VIP-connection is being retired instead of
// returned to the idle list as-is.
type RetireReason uint8

const (
	// RetireLimitReached means the connection served its configured
	// maximum number of requests (S3 limits requests per connection).
	RetireLimitReached RetireReason = iota
	// RetireProtocolError means the connection reported a protocol-level
	// error and must not be reused.
	RetireProtocolError
	// RetireServerClosed means the peer closed the connection.
	RetireServerClosed
)

// UpdateKind classifies a ConnectionUpdate.
type UpdateKind uint8

const (
	// ConnAdded reports a new VIP-connection entering the idle list.
	ConnAdded UpdateKind = iota
	// ConnRemoved reports a VIP-connection permanently leaving the pool.
	ConnRemoved
)

// ConnectionUpdate is emitted on the pool's update channel whenever a
// VIP-connection is created or permanently removed, for the scheduler's
// "drain updates" phase to consume.
type ConnectionUpdate struct {
	Kind UpdateKind
	Conn *VIPConnection
}

// VIPConnection is one logical connection slot bound to a VIP.
type VIPConnection struct {
	id    uint64
	vipIP string
	entry *vip.Entry

	client *http.Client
	reqs   atomic.Int64
}

// ID is this VIP-connection's stable identity within the pool.
func (c *VIPConnection) ID() uint64 {
	if c == nil {
		return 0
	}
	return c.id
}

// VIP returns the resolved address this connection is pinned to.
func (c *VIPConnection) VIP() string {
	if c == nil {
		return ""
	}
	return c.vipIP
}

// Client returns the *http.Client to issue the next request with.
func (c *VIPConnection) Client() *http.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// RequestCount returns how many requests have been issued on this slot.
func (c *VIPConnection) RequestCount() int64 {
	if c == nil {
		return 0
	}
	return c.reqs.Load()
}

// RecordRequest marks one request as dispatched on this slot; the issuer
// calls it once per request, before Return/Retire decides the slot's fate.
func (c *VIPConnection) RecordRequest() {
	if c == nil {
		return
	}
	c.reqs.Add(1)
}

// Config configures a Pool.
type Config struct {
	Table vip.Table
	// RequestLimitPerConn bounds requests served per VIP-connection before
	// it self-retires with RetireLimitReached; <= 0 means unbounded.
	RequestLimitPerConn int64
	// SweepEvery is the idle-sweep and VIP-membership refresh interval.
	SweepEvery libdur.Duration
}

// Pool is the bounded set of long-lived VIP-connections across every VIP
// currently tracked by the pool's vip.Table.
type Pool interface {
	// PopIdle returns an idle VIP-connection, round-robining across VIPs,
	// or false if none is currently idle. Never blocks.
	PopIdle() (*VIPConnection, bool)

	// Return puts a still-usable VIP-connection back on the idle list,
	// unless it has reached its configured request limit, in which case
	// it is retired with RetireLimitReached instead.
	Return(vc *VIPConnection)

	// Retire permanently drops vc and asynchronously arranges its
	// replacement slot for the same VIP, unless that VIP is no longer
	// tracked by the pool's table.
	Retire(vc *VIPConnection, reason RetireReason)

	// Updates is drained by the scheduler's "drain updates" phase.
	Updates() <-chan ConnectionUpdate

	// Len returns the total number of tracked VIP-connections (idle or
	// checked out).
	Len() int

	// IdleLen returns the number of currently idle VIP-connections.
	IdleLen() int

	// StartIdleSweep starts the periodic VIP-membership refresh and idle
	// connection pruning loop.
	StartIdleSweep(ctx context.Context) error

	// StopIdleSweep stops the sweep loop started by StartIdleSweep.
	StopIdleSweep(ctx context.Context) error

	// Close tears down every tracked VIP-connection, releasing its VIP
	// reference, and stops the sweep loop if running.
	Close()
}

// New builds a Pool bound to cfg.Table. It does not itself populate the
// idle list; StartIdleSweep must run for VIP-connections to be created.
func New(cfg Config) Pool {
	return &pool{
		cfg:     cfg,
		seq:     new(atomic.Uint64),
		idle:    make([]*VIPConnection, 0, 16),
		perVIP:  make(map[string]int),
		updates: make(chan ConnectionUpdate, 64),
	}
}

type pool struct {
	mu sync.Mutex

	cfg Config
	seq *atomic.Uint64

	idle   []*VIPConnection
	perVIP map[string]int

	updates chan ConnectionUpdate
	closed  bool

	sweepMu sync.Mutex
	sweep   ticker.Ticker
}
