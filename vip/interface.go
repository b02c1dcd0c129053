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

// Package vip tracks the live set of resolved endpoint IP addresses (VIPs)
// for an S3-compatible hostname, and the per-VIP HTTP connection manager
// bound to each one.
package vip

import (
	"context"
	"crypto/tls"
	"sync"

	libdur "github.com/nabbar/s3transfer/duration"
	"github.com/nabbar/s3transfer/runner/ticker"
)

// EventKind classifies a host-listener notification.
type EventKind uint8

const (
	// AddressAdded signals that a new IP has been resolved for the endpoint host.
	AddressAdded EventKind = iota
	// AddressRemoved signals that a previously resolved IP is no longer valid.
	AddressRemoved
)

// Event is emitted by an external DNS host listener.
type Event struct {
	Host string
	Kind EventKind
	IP   string
}

// TransportConfig mirrors the per-VIP *http.Transport tuning knobs.
type TransportConfig struct {
	TimeoutGlobal         libdur.Duration
	TimeoutKeepAlive      libdur.Duration
	TimeoutTLSHandshake   libdur.Duration
	TimeoutExpectContinue libdur.Duration
	TimeoutIdleConn       libdur.Duration
	MaxConnsPerHost       int
	TLSConfig             *tls.Config
}

// Config configures a Table.
type Config struct {
	// IdealVIPCount is the target number of simultaneously active VIPs,
	// typically ceil(target_gbps / throughput_per_vip).
	IdealVIPCount int
	Transport     TransportConfig
	RefreshEvery  libdur.Duration
}

// Table tracks the live set of VIPs for one endpoint hostname.
type Table interface {
	// Add registers a new VIP for the given IP, building its connection
	// manager. A no-op if a VIP for that IP already exists or the table
	// is already at its ideal VIP count.
	Add(ip string) error

	// Remove marks the VIP for the given IP inactive and schedules its
	// teardown once every VIP-connection referencing it has released.
	Remove(ip string) error

	// Walk calls fn for every currently tracked VIP; fn returning false
	// stops the iteration early.
	Walk(fn func(ip string, v *Entry) bool)

	// Len returns the number of tracked VIPs (active or draining).
	Len() int

	// Search returns the VIP for the given IP, if any.
	Search(ip string) (*Entry, bool)

	// CacheGet returns the last-known-good VIP list for a hostname.
	CacheGet(host string) ([]string, bool)

	// CacheSet records the last-known-good VIP list for a hostname.
	CacheSet(host string, ips []string)

	// Subscribe consumes host-listener events from ch until it is closed
	// or the returned stop function is called, applying Add/Remove as
	// address-added/address-removed events arrive.
	Subscribe(ch <-chan Event) (stop func())

	// StartRefresh starts the default poll-based VIP driver: every
	// cfg.RefreshEvery it calls resolve for host, diffs the result against
	// CacheGet(host) and applies Add/Remove accordingly, then CacheSet's
	// the new list. A no-op resolve error leaves the table untouched.
	StartRefresh(ctx context.Context, host string, resolve func(ctx context.Context, host string) ([]string, error)) error

	// StopRefresh stops a refresh driver started by StartRefresh.
	StopRefresh(ctx context.Context) error
}

// New builds a Table from cfg. cfg.IdealVIPCount <= 0 means unbounded.
func New(cfg Config) Table {
	return &table{
		cfg:   cfg,
		vips:  make(map[string]*Entry),
		cache: make(map[string][]string),
	}
}

type table struct {
	mu    sync.RWMutex
	cfg   Config
	vips  map[string]*Entry
	cache map[string][]string

	refMu sync.Mutex
	ref   ticker.Ticker
}

func (t *table) activeCount() int {
	n := 0
	for _, v := range t.vips {
		if v.Active() {
			n++
		}
	}
	return n
}
