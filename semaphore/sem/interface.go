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

// Package sem provides a worker-counting semaphore used to bound the number
// of goroutines concurrently running a given piece of work. A semaphore
// built with a positive capacity wraps golang.org/x/sync/semaphore; a
// negative capacity yields an unlimited semaphore backed by a sync.WaitGroup,
// for call sites that only need the worker-tracking behavior (WaitAll)
// without an actual concurrency cap.
package sem

import (
	"context"
)

// Sem tracks a pool of workers bounded (or not) by a capacity, and exposes
// the wrapped context so callers can select on cancellation the same way
// they would on any context.Context.
type Sem interface {
	context.Context

	// New creates an independent child semaphore with the same capacity,
	// whose context is derived from this semaphore's context.
	New() Sem

	// Weighted returns the configured capacity, or -1 if unlimited.
	Weighted() int64

	// NewWorker blocks until a worker slot is available or the context is
	// done. Always succeeds immediately on an unlimited semaphore.
	NewWorker() error

	// NewWorkerTry attempts to acquire a worker slot without blocking.
	// Always succeeds on an unlimited semaphore.
	NewWorkerTry() bool

	// DeferWorker releases a worker slot acquired via NewWorker or NewWorkerTry.
	DeferWorker()

	// DeferMain cancels the semaphore's context. Safe to call more than once.
	DeferMain()

	// WaitAll blocks until every acquired worker has been released, or
	// returns the context error if the context is done first.
	WaitAll() error
}

// New builds a Sem. A nbrSimultaneous of zero uses MaxSimultaneous() as the
// capacity, a positive value is used as-is, and any negative value yields an
// unlimited semaphore.
func New(ctx context.Context, nbrSimultaneous int64) Sem {
	return newSem(ctx, nbrSimultaneous)
}
