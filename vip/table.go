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

import "sync"

func (t *table) Add(ip string) error {
	if ip == "" {
		return ErrorParamEmpty.Error(nil)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.vips[ip]; ok {
		return nil
	}

	if t.cfg.IdealVIPCount > 0 && t.activeCount() >= t.cfg.IdealVIPCount {
		return nil
	}

	e := newEntry(ip, t.cfg.Transport, t.removeLocked)
	t.vips[ip] = e

	return nil
}

func (t *table) Remove(ip string) error {
	if ip == "" {
		return ErrorParamEmpty.Error(nil)
	}

	t.mu.RLock()
	e, ok := t.vips[ip]
	t.mu.RUnlock()

	if !ok {
		return ErrorNotFound.Error(nil)
	}

	e.Deactivate()
	return nil
}

// removeLocked is the Entry on-zero hook: once a deactivated VIP's
// refcount drains, it is dropped from the table.
func (t *table) removeLocked(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.vips, ip)
}

func (t *table) Walk(fn func(ip string, v *Entry) bool) {
	if fn == nil {
		return
	}

	t.mu.RLock()
	snapshot := make(map[string]*Entry, len(t.vips))
	for k, v := range t.vips {
		snapshot[k] = v
	}
	t.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

func (t *table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.vips)
}

func (t *table) Search(ip string) (*Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.vips[ip]
	return e, ok
}

func (t *table) Subscribe(ch <-chan Event) (stop func()) {
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}

				switch ev.Kind {
				case AddressAdded:
					_ = t.Add(ev.IP)
				case AddressRemoved:
					_ = t.Remove(ev.IP)
				}
			}
		}
	}()

	once := &sync.Once{}
	return func() {
		once.Do(func() { close(done) })
	}
}
