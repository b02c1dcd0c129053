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

package startStop

import (
	"context"
	"fmt"
	"sync"
	"time"
)

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()

	r.stopPreviousLocked()

	r.errs.Clear()

	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	once := &sync.Once{}
	r.once = once

	done := make(chan struct{})
	r.done = done

	start := r.start

	r.running.Store(true)
	r.startedAt.Store(time.Now())

	r.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			r.running.Store(false)
			r.startedAt.Store(time.Time{})
		}()
		defer func() {
			if rec := recover(); rec != nil {
				r.addError(fmt.Errorf("startStop: recovered panic in start function: %v", rec))
			}
		}()

		if start == nil {
			r.addError(fmt.Errorf("startStop: invalid start function"))
			return
		}

		if err := start(cctx); err != nil {
			r.addError(err)
		}
	}()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running.Load() {
		r.mu.Unlock()
		return nil
	}

	once := r.once
	cancel := r.cancel
	stop := r.stop
	done := r.done
	r.mu.Unlock()

	if once != nil {
		once.Do(func() {
			if cancel != nil {
				cancel()
			}
			r.runStop(ctx, stop)
		})
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	return nil
}

func (r *runner) runStop(ctx context.Context, stop FuncStop) {
	defer func() {
		if rec := recover(); rec != nil {
			r.addError(fmt.Errorf("startStop: recovered panic in stop function: %v", rec))
		}
	}()

	if stop == nil {
		r.addError(fmt.Errorf("startStop: invalid stop function"))
		return
	}

	if err := stop(ctx); err != nil {
		r.addError(err)
	}
}

func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}
	return r.Start(ctx)
}

// stopPreviousLocked cancels and waits out any instance from a prior Start
// call. The caller must hold r.mu.
func (r *runner) stopPreviousLocked() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.done != nil {
		<-r.done
	}
}
