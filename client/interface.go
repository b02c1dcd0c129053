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

// Package client is the top-level facade: one Client per S3-compatible
// endpoint, wiring vip, conn, scheduler, metarequest, request, signing,
// retry and stream together behind make_client/make_meta_request-shaped
// Go methods (Get/Put), with a two-atomic-counter external/internal
// reference count governing teardown.
package client

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	libaws "github.com/nabbar/s3transfer/aws"
	connpkg "github.com/nabbar/s3transfer/conn"
	libdur "github.com/nabbar/s3transfer/duration"
	liblog "github.com/nabbar/s3transfer/logger"
	"github.com/nabbar/s3transfer/request"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/scheduler"
	"github.com/nabbar/s3transfer/semaphore/sem"
	libsiz "github.com/nabbar/s3transfer/size"
	"github.com/nabbar/s3transfer/signing"
	"github.com/nabbar/s3transfer/vip"
)

// Config configures a Client. It mirrors the make_client options:
// {region, part_size, max_part_size, throughput_target_gbps, tls_config,
// signing_config, retry_strategy, client_bootstrap, shutdown_callback}.
type Config struct {
	// VirtualHost is the S3 endpoint hostname used for both DNS resolution
	// (vip.Table.StartRefresh) and SigV4/Host-header signing.
	VirtualHost string
	// AWS supplies region/credentials for SigV4 signing, e.g. built via
	// aws/configAws.NewConfig(bucket, accessKey, secretKey, region).
	AWS libaws.Config
	// SigningService is the SigV4 service name; "" defaults to "s3".
	SigningService string

	// VIP configures the VIP table (ideal VIP count ~=
	// ceil(throughput_target_gbps / per_vip_throughput), transport knobs).
	VIP vip.Config
	// RequestLimitPerConn bounds requests served per VIP-connection; <= 0
	// means unbounded.
	RequestLimitPerConn int64
	// SweepEvery is the idle-sweep/VIP-membership refresh interval.
	SweepEvery libdur.Duration

	// InFlightLimit bounds requests dispatched concurrently across the
	// whole client; <= 0 means unlimited.
	InFlightLimit int64
	// QueueSize bounds the scheduler's intake/completion channel capacity.
	QueueSize int

	// Retry configures the shared retry budget every meta-request uses.
	Retry retry.Config
	// MaxBody bounds a single response body the issuer will buffer.
	MaxBody int64

	// PartSize is the default multipart/ranged-GET part size; <= 0 uses
	// aws/multipart.DefaultPartSize.
	PartSize libsiz.Size
	// Window bounds parts in flight per meta-request; <= 0 means 4.
	Window int

	// Log supplies a logger.Logger lazily, matching logger's own FuncLog
	// dependency-injection convention; nil uses logger.GetDefault.
	Log liblog.FuncLog
	// Metrics, when true, registers this Client's prometheus collectors
	// with the default registry (see metrics.go).
	Metrics bool

	// ShutdownCallback fires exactly once, after the external refcount has
	// reached zero AND every owned subresource has finished async cleanup
	// — only then is the shutdown callback invoked.
	ShutdownCallback func()

	// Resolve overrides how StartRefresh discovers VIPs for VirtualHost;
	// nil uses net.LookupHost.
	Resolve func(ctx context.Context, host string) ([]string, error)
}

// Client is one S3-compatible endpoint's wired vip/conn/scheduler stack,
// reference-counted with two atomic counters: Acquire/Release move the
// external counter, every owned subresource's lifecycle moves the
// internal one.
type Client struct {
	cfg Config

	table vip.Table
	pool  connpkg.Pool
	sched scheduler.Scheduler

	signer signing.Signer
	retry  retry.Controller

	active atomic.Bool

	extRef *refcount
	intRef *refcount

	metrics *metricSet

	nextID atomic.Uint64

	shutdownOnce sync.Once
}

// New wires a Client from cfg but does not start it.
func New(cfg Config) (*Client, error) {
	if cfg.VirtualHost == "" || cfg.AWS == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	signer, err := signing.New(signing.Config{AWS: cfg.AWS, Service: cfg.SigningService})
	if err != nil {
		return nil, ErrorSigningInit.Error(err)
	}

	retryCtl := retry.New(cfg.Retry)

	issuer, err := request.NewIssuer(signer, retryCtl, cfg.MaxBody)
	if err != nil {
		return nil, err
	}

	table := vip.New(cfg.VIP)
	pool := connpkg.New(connpkg.Config{
		Table:               table,
		RequestLimitPerConn: cfg.RequestLimitPerConn,
		SweepEvery:          cfg.SweepEvery,
	})

	c := &Client{
		cfg:    cfg,
		table:  table,
		pool:   pool,
		signer: signer,
		retry:  retryCtl,
	}

	c.intRef = newRefcount(c.onInternalZero)
	c.extRef = newRefcount(c.onExternalZero)
	c.extRef.add(1) // the caller's own handle, released by Release

	c.sched = scheduler.New(scheduler.Config{
		Pool:      pool,
		InFlight:  sem.New(context.Background(), cfg.InFlightLimit),
		Dispatch:  issuer,
		QueueSize: cfg.QueueSize,
	})

	if cfg.Metrics {
		c.metrics = newMetricSet()
	}

	return c, nil
}

// Start brings the connection pool's idle sweep and the scheduler up.
func (c *Client) Start(ctx context.Context) error {
	c.active.Store(true)
	c.intRef.add(1) // the running lifecycle itself holds one internal ref

	if err := c.pool.StartIdleSweep(ctx); err != nil {
		return err
	}
	if err := c.sched.Start(ctx); err != nil {
		return err
	}
	if err := c.table.StartRefresh(ctx, c.cfg.VirtualHost, c.resolver()); err != nil {
		return err
	}

	if c.metrics != nil {
		c.metrics.setVIPCount(0)
	}
	c.log().Info("client started", map[string]interface{}{"virtual_host": c.cfg.VirtualHost})
	return nil
}

// Acquire increments the external reference count (a new user handle).
func (c *Client) Acquire() {
	c.extRef.add(1)
}

// Release decrements the external reference count. Reaching zero begins
// teardown: the host listener/scheduler are stopped and every VIP is
// released, but the shutdown callback only fires once the internal
// count (owned subresources) also reaches zero.
func (c *Client) Release() error {
	if c.extRef.load() <= 0 {
		return ErrorReleased.Error(nil)
	}
	c.extRef.add(-1)
	return nil
}

func (c *Client) onExternalZero() {
	c.active.Store(false)
	ctx := context.Background()

	_ = c.table.StopRefresh(ctx)
	_ = c.sched.Stop(ctx)
	_ = c.pool.StopIdleSweep(ctx)
	c.pool.Close()

	c.intRef.add(-1) // release the lifecycle's own internal ref, taken in Start
}

func (c *Client) onInternalZero() {
	c.log().Info("client fully released", map[string]interface{}{"virtual_host": c.cfg.VirtualHost})
	c.shutdownOnce.Do(func() {
		if c.cfg.ShutdownCallback != nil {
			c.cfg.ShutdownCallback()
		}
	})
}

func (c *Client) resolver() func(ctx context.Context, host string) ([]string, error) {
	if c.cfg.Resolve != nil {
		return c.cfg.Resolve
	}
	return func(ctx context.Context, host string) ([]string, error) {
		return net.DefaultResolver.LookupHost(ctx, host)
	}
}

func (c *Client) log() liblog.Logger {
	if c.cfg.Log != nil {
		return c.cfg.Log()
	}
	return liblog.GetDefault()
}

func (c *Client) nextRequestID() uint64 {
	return c.nextID.Add(1)
}

// ActiveCount reports the number of meta-requests currently tracked by the
// scheduler (approximate, per scheduler.Scheduler.ActiveCount).
func (c *Client) ActiveCount() int {
	return c.sched.ActiveCount()
}

// IsActive reports whether the client is started and has not yet begun
// external-refcount teardown.
func (c *Client) IsActive() bool {
	return c.active.Load()
}
