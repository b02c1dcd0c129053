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

package client

import (
	"sync"

	libatm "github.com/nabbar/s3transfer/atomic"
)

// refcount is a CAS-looped counter over atomic.Value[int64], used instead
// of a raw sync/atomic.Int64 so both of a Client's counters share the same
// wrapper the rest of this module uses for atomic scalars. Nothing here
// ever calls SetDefaultLoad/SetDefaultStore, so Value[int64]'s "zero looks
// empty" substitution never fires and zero round-trips exactly.
type refcount struct {
	v libatm.Value[int64]

	mu      sync.Mutex
	onZero  func()
	firedZero bool
}

func newRefcount(onZero func()) *refcount {
	return &refcount{v: libatm.NewValue[int64](), onZero: onZero}
}

// add atomically adds delta and returns the resulting value. When the
// result reaches zero, onZero fires exactly once.
func (r *refcount) add(delta int64) int64 {
	for {
		old := r.v.Load()
		n := old + delta
		if r.v.CompareAndSwap(old, n) {
			if n == 0 {
				r.mu.Lock()
				fire := !r.firedZero
				r.firedZero = true
				r.mu.Unlock()
				if fire && r.onZero != nil {
					r.onZero()
				}
			}
			return n
		}
	}
}

func (r *refcount) load() int64 {
	return r.v.Load()
}
