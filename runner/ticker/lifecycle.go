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

package ticker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

func (t *tick) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("ticker: nil context")
	}

	t.mu.Lock()

	t.stopPreviousLocked()
	t.err.Clear()

	cctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	once := &sync.Once{}
	t.once = once

	done := make(chan struct{})
	t.done = done

	fn := t.fn
	dur := t.dur

	t.running.Store(true)
	t.startedAt.Store(time.Now())

	t.mu.Unlock()

	go t.run(cctx, dur, fn, done)

	return nil
}

func (t *tick) run(ctx context.Context, dur time.Duration, fn FuncTick, done chan struct{}) {
	defer close(done)
	defer func() {
		t.running.Store(false)
		t.startedAt.Store(time.Time{})
	}()

	tck := time.NewTicker(dur)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tck.C:
			t.runTick(ctx, fn, tck)

			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (t *tick) runTick(ctx context.Context, fn FuncTick, tck *time.Ticker) {
	defer func() {
		if rec := recover(); rec != nil {
			t.addError(fmt.Errorf("ticker: recovered panic in tick function: %v", rec))
		}
	}()

	if fn == nil {
		t.addError(fmt.Errorf("ticker: invalid function"))
		return
	}

	if err := fn(ctx, tck); err != nil {
		t.addError(err)
	}
}

func (t *tick) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running.Load() {
		t.mu.Unlock()
		return nil
	}

	once := t.once
	cancel := t.cancel
	done := t.done
	t.mu.Unlock()

	if once != nil {
		once.Do(func() {
			if cancel != nil {
				cancel()
			}
		})
	}

	if done != nil {
		if ctx == nil {
			<-done
		} else {
			select {
			case <-done:
			case <-ctx.Done():
			}
		}
	}

	return nil
}

func (t *tick) Restart(ctx context.Context) error {
	if err := t.Stop(ctx); err != nil {
		return err
	}
	return t.Start(ctx)
}

// stopPreviousLocked cancels and waits out any instance from a prior Start
// call. The caller must hold t.mu.
func (t *tick) stopPreviousLocked() {
	if t.cancel != nil {
		t.cancel()
	}
	if t.done != nil {
		<-t.done
	}
}
