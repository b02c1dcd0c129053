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
	"time"

	"github.com/nabbar/s3transfer/runner/ticker"
)

// StartRefresh is the default VIP driver: a poll loop built on runner/ticker
// that diffs a resolver's answer against the cached VIP list for host on
// every tick and applies the delta via Add/Remove.
func (t *table) StartRefresh(ctx context.Context, host string, resolve func(ctx context.Context, host string) ([]string, error)) error {
	if host == "" || resolve == nil {
		return ErrorParamEmpty.Error(nil)
	}

	t.refMu.Lock()
	defer t.refMu.Unlock()

	tck := ticker.New(t.cfg.RefreshEvery.Time(), func(tctx context.Context, _ *time.Ticker) error {
		return t.refreshOnce(tctx, host, resolve)
	})

	if err := tck.Start(ctx); err != nil {
		return err
	}

	t.ref = tck
	return nil
}

// StopRefresh stops a refresh driver started by StartRefresh.
func (t *table) StopRefresh(ctx context.Context) error {
	t.refMu.Lock()
	tck := t.ref
	t.ref = nil
	t.refMu.Unlock()

	if tck == nil {
		return nil
	}

	return tck.Stop(ctx)
}

func (t *table) refreshOnce(ctx context.Context, host string, resolve func(ctx context.Context, host string) ([]string, error)) error {
	ips, err := resolve(ctx, host)
	if err != nil {
		return err
	}

	prev, _ := t.CacheGet(host)
	want := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		want[ip] = struct{}{}
		_ = t.Add(ip)
	}

	for _, ip := range prev {
		if _, ok := want[ip]; !ok {
			_ = t.Remove(ip)
		}
	}

	t.CacheSet(host, ips)
	return nil
}
