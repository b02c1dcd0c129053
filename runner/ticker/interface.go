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

// Package ticker wraps a periodic function into a restartable, goroutine-backed
// runner built on time.Ticker, tracking its own running state, uptime and the
// errors its function returned.
package ticker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/s3transfer/errors/pool"
)

// defaultDuration is used whenever the caller supplies a duration too small
// to be a meaningful tick interval.
const defaultDuration = 30 * time.Second

// minDuration is the smallest tick interval honored literally; anything
// below it falls back to defaultDuration.
const minDuration = time.Millisecond

// FuncTick is invoked synchronously on every tick. tck is the underlying
// time.Ticker, exposed so the function can read its channel or reset it.
type FuncTick func(ctx context.Context, tck *time.Ticker) error

// Ticker is a restartable runner driving a FuncTick off a time.Ticker.
type Ticker interface {
	// Start launches the ticker loop in a new goroutine, stopping any
	// instance already running first. It returns immediately with an
	// error only if ctx is nil.
	Start(ctx context.Context) error

	// Stop cancels the running loop and waits for it to exit.
	Stop(ctx context.Context) error

	// Restart stops then starts the ticker.
	Restart(ctx context.Context) error

	// IsRunning reports whether the tick loop is currently active.
	IsRunning() bool

	// Uptime returns how long the current run has been active, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, if any.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the current/last Start call.
	ErrorsList() []error
}

// New builds a Ticker that calls fn every d. A d below minDuration (including
// zero and negative values) is replaced with defaultDuration. fn may be nil;
// each tick then records an error instead of panicking.
func New(d time.Duration, fn FuncTick) Ticker {
	if d < minDuration {
		d = defaultDuration
	}

	return &tick{
		dur: d,
		fn:  fn,
		err: pool.New(),
	}
}

type tick struct {
	mu     sync.Mutex
	dur    time.Duration
	fn     FuncTick
	cancel context.CancelFunc
	once   *sync.Once
	done   chan struct{}

	running   atomic.Bool
	startedAt atomic.Value

	err pool.Pool
}
