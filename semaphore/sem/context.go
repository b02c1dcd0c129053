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
	"time"
)

func (s *sem) Deadline() (time.Time, bool) {
	return s.ctx.Deadline()
}

func (s *sem) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *sem) Err() error {
	return s.ctx.Err()
}

func (s *sem) Value(key interface{}) interface{} {
	return s.ctx.Value(key)
}

// DeferMain cancels the semaphore's own context, releasing any goroutine
// blocked in NewWorker or WaitAll. Safe to call more than once; context
// cancellation is itself idempotent.
func (s *sem) DeferMain() {
	if s.cancel != nil {
		s.cancel()
	}
}

var _ context.Context = (*sem)(nil)
