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
	"net/http"

	"github.com/nabbar/s3transfer/vip"
)

func (p *pool) PopIdle() (*VIPConnection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) == 0 {
		return nil, false
	}

	vc := p.idle[0]
	p.idle = p.idle[1:]
	return vc, true
}

func (p *pool) Return(vc *VIPConnection) {
	if vc == nil {
		return
	}

	if p.cfg.RequestLimitPerConn > 0 && vc.reqs.Load() >= p.cfg.RequestLimitPerConn {
		p.Retire(vc, RetireLimitReached)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.idle = append(p.idle, vc)
}

func (p *pool) Retire(vc *VIPConnection, _ RetireReason) {
	if vc == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		vc.entry.Release()
		return
	}
	p.perVIP[vc.vipIP]--
	p.mu.Unlock()

	vc.entry.Release()
	p.publish(ConnectionUpdate{Kind: ConnRemoved, Conn: vc})

	go p.replaceAsync(vc.vipIP)
}

// replaceAsync arranges a fresh VIP-connection for ip, unless the VIP is no
// longer active, mirroring "returns to the idle list on success or to the
// error path on failure" without blocking the caller of Retire.
func (p *pool) replaceAsync(ip string) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}

	entry, ok := p.cfg.Table.Search(ip)
	if !ok || !entry.Active() {
		return
	}

	p.addConn(entry)
}

func (p *pool) addConn(entry *vip.Entry) {
	entry.Acquire()

	vc := &VIPConnection{
		id:    p.seq.Add(1),
		vipIP: entry.IP(),
		entry: entry,
		client: &http.Client{
			Transport: entry.Transport(),
		},
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		vc.entry.Release()
		return
	}
	p.perVIP[vc.vipIP]++
	p.idle = append(p.idle, vc)
	p.mu.Unlock()

	p.publish(ConnectionUpdate{Kind: ConnAdded, Conn: vc})
}

func (p *pool) Updates() <-chan ConnectionUpdate {
	return p.updates
}

func (p *pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, c := range p.perVIP {
		n += c
	}
	return n
}

func (p *pool) IdleLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

func (p *pool) publish(u ConnectionUpdate) {
	select {
	case p.updates <- u:
	default:
		// updates channel backlogged: the scheduler is behind on its
		// drain phase, but publish must never block the pool.
	}
}

func (p *pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, vc := range idle {
		vc.entry.Release()
	}

	_ = p.StopIdleSweep(nil)
}
