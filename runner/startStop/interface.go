/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop wraps a pair of start/stop functions into a restartable,
// goroutine-backed runner that tracks its own running state, uptime and the
// errors its functions returned.
package startStop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/s3transfer/errors/pool"
)

// FuncStart is launched in its own goroutine by Start. It is expected to
// block until the context it receives is done, for long-running services;
// a FuncStart that returns early simply ends the run.
type FuncStart func(ctx context.Context) error

// FuncStop performs the actual shutdown work when Stop is called.
type FuncStop func(ctx context.Context) error

// StartStop is a restartable runner built from a FuncStart/FuncStop pair.
type StartStop interface {
	// Start launches the start function in a new goroutine, stopping any
	// instance already running first. It returns immediately; errors
	// returned by the start function are recorded and retrievable via
	// ErrorsLast/ErrorsList.
	Start(ctx context.Context) error

	// Stop cancels the running instance's context and invokes the stop
	// function once. Calling Stop when not running, or calling it more
	// than once concurrently, is a safe no-op beyond the first call.
	Stop(ctx context.Context) error

	// Restart stops then starts the runner.
	Restart(ctx context.Context) error

	// IsRunning reports whether a start function is currently executing.
	IsRunning() bool

	// Uptime returns how long the current run has been active, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, if any.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the current/last Start call.
	ErrorsList() []error
}

// New builds a StartStop runner from the given start/stop functions. Either
// may be nil; calling Start or Stop without the corresponding function
// records an error instead of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		start: start,
		stop:  stop,
		errs:  pool.New(),
	}
}

type runner struct {
	mu     sync.Mutex
	start  FuncStart
	stop   FuncStop
	cancel context.CancelFunc
	once   *sync.Once
	done   chan struct{}

	running   atomic.Bool
	startedAt atomic.Value

	errs pool.Pool
}
