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

// CacheGet and CacheSet hold the last-known-good VIP list per hostname, so
// a flapping DNS answer does not empty a host's VIP set outright.

func (t *table) CacheGet(host string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ips, ok := t.cache[host]
	if !ok {
		return nil, false
	}

	out := make([]string, len(ips))
	copy(out, ips)
	return out, true
}

func (t *table) CacheSet(host string, ips []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(ips) == 0 {
		delete(t.cache, host)
		return
	}

	cp := make([]string, len(ips))
	copy(cp, ips)
	t.cache[host] = cp
}
