/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

package sem

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

type sem struct {
	ctx    context.Context
	cancel context.CancelFunc

	weight int64
	wgt    *semaphore.Weighted
	wrk    sync.WaitGroup
}

func newSem(ctx context.Context, nbrSimultaneous int64) *sem {
	c, cancel := context.WithCancel(ctx)

	s := &sem{
		ctx:    c,
		cancel: cancel,
	}

	switch {
	case nbrSimultaneous < 0:
		s.weight = -1
	case nbrSimultaneous == 0:
		s.weight = int64(MaxSimultaneous())
		s.wgt = semaphore.NewWeighted(s.weight)
	default:
		s.weight = nbrSimultaneous
		s.wgt = semaphore.NewWeighted(s.weight)
	}

	return s
}

func (s *sem) New() Sem {
	c, cancel := context.WithCancel(s.ctx)

	child := &sem{
		ctx:    c,
		cancel: cancel,
		weight: s.weight,
	}

	if s.weight >= 0 {
		child.wgt = semaphore.NewWeighted(s.weight)
	}

	return child
}

func (s *sem) Weighted() int64 {
	return s.weight
}

// MaxSimultaneous returns the default worker capacity used when New is
// called with a nbrSimultaneous of zero: the number of logical CPUs
// available to the process.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// SetSimultaneous clamps n to the [1, MaxSimultaneous()] range, defaulting
// to MaxSimultaneous() for any value outside it.
func SetSimultaneous(n int64) int64 {
	max := int64(MaxSimultaneous())
	if n < 1 || n > max {
		return max
	}
	return n
}
