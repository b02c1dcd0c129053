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

package conn

import (
	"context"
	"time"

	"github.com/nabbar/s3transfer/runner/ticker"
	"github.com/nabbar/s3transfer/vip"
)

// StartIdleSweep starts the periodic loop that keeps the pool's tracked
// VIP-connections in sync with the table's active VIP membership (adding
// slots for newly active VIPs up to their transport's MaxConnsPerHost,
// retiring slots for VIPs no longer active) and prunes idle transports.
func (p *pool) StartIdleSweep(ctx context.Context) error {
	p.sweepMu.Lock()
	defer p.sweepMu.Unlock()

	if p.sweep == nil {
		p.sweep = ticker.New(p.cfg.SweepEvery.Time(), p.sweepTick)
	}

	return p.sweep.Start(ctx)
}

// StopIdleSweep stops the loop started by StartIdleSweep.
func (p *pool) StopIdleSweep(ctx context.Context) error {
	p.sweepMu.Lock()
	s := p.sweep
	p.sweepMu.Unlock()

	if s == nil {
		return nil
	}
	return s.Stop(ctx)
}

func (p *pool) sweepTick(ctx context.Context, _ *time.Ticker) error {
	if p.cfg.Table == nil {
		return nil
	}

	live := make(map[string]bool)

	p.cfg.Table.Walk(func(ip string, e *vip.Entry) bool {
		if ctx.Err() != nil {
			return false
		}
		if !e.Active() {
			return true
		}

		live[ip] = true
		quota := 1
		if t := e.Transport(); t != nil && t.MaxConnsPerHost > 0 {
			quota = t.MaxConnsPerHost
		}

		p.mu.Lock()
		have := p.perVIP[ip]
		p.mu.Unlock()

		for have < quota {
			p.addConn(e)
			have++
		}

		return true
	})

	p.retireDeadVIPs(live)
	return nil
}

// retireDeadVIPs retires every idle VIP-connection whose VIP is no longer
// active, so a torn-down VIP's slots drain out of the idle list instead of
// being handed out again.
func (p *pool) retireDeadVIPs(live map[string]bool) {
	p.mu.Lock()
	kept := p.idle[:0]
	var dead []*VIPConnection
	for _, vc := range p.idle {
		if live[vc.vipIP] {
			kept = append(kept, vc)
		} else {
			dead = append(dead, vc)
		}
	}
	p.idle = kept
	p.mu.Unlock()

	for _, vc := range dead {
		p.Retire(vc, RetireServerClosed)
	}
}
