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

// Package stream is the per-meta-request body-streaming queue: completed
// GET parts insert themselves out of order, a dedicated goroutine drains
// in-order runs and invokes the user's body callback, isolating callback
// latency from the work scheduler.
package stream

import (
	"context"
	"sync"

	"github.com/nabbar/s3transfer/runner/startStop"
)

// Chunk is one completed, not-yet-delivered body part.
type Chunk struct {
	Index  int64
	Offset int64
	Data   []byte
}

// Queue orders and delivers Chunks for one meta-request.
type Queue interface {
	// Start launches the dedicated draining goroutine.
	Start(ctx context.Context) error
	// Stop halts the draining goroutine. Buffered, undelivered chunks are
	// discarded (the owning meta-request has already failed or cancelled).
	Stop(ctx context.Context) error

	// Push enqueues a completed chunk. Returns ErrorClosed once Stop has
	// been called.
	Push(c Chunk) error
}

// New builds a Queue that delivers chunks strictly in ascending Index
// order, starting at firstIndex, via deliver. deliver is called on the
// queue's own goroutine, never on the caller's.
func New(firstIndex int64, deliver func(Chunk)) Queue {
	return &queue{
		next:    firstIndex,
		deliver: deliver,
		pending: make(map[int64]Chunk),
		in:      make(chan Chunk, 64),
	}
}

type queue struct {
	mu      sync.Mutex
	next    int64
	deliver func(Chunk)
	pending map[int64]Chunk

	in        chan Chunk
	lifecycle startStop.StartStop
	closed    bool
}

func (q *queue) Start(ctx context.Context) error {
	if q.lifecycle == nil {
		q.lifecycle = startStop.New(q.run, q.shutdown)
	}
	return q.lifecycle.Start(ctx)
}

func (q *queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	if q.lifecycle == nil {
		return nil
	}
	return q.lifecycle.Stop(ctx)
}

func (q *queue) Push(c Chunk) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()

	if closed {
		return ErrorClosed.Error(nil)
	}

	q.in <- c
	return nil
}

func (q *queue) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-q.in:
			q.absorb(c)
		}
	}
}

// absorb buffers c and delivers every contiguous run starting at next.
func (q *queue) absorb(c Chunk) {
	q.mu.Lock()
	q.pending[c.Index] = c
	for {
		next, ok := q.pending[q.next]
		if !ok {
			break
		}
		delete(q.pending, q.next)
		q.next++
		q.mu.Unlock()
		q.deliver(next)
		q.mu.Lock()
	}
	q.mu.Unlock()
}

func (q *queue) shutdown(_ context.Context) error {
	return nil
}
