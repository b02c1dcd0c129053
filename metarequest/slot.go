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

package metarequest

import (
	"context"
	"net/http"
	"sync"

	"github.com/nabbar/s3transfer/request"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/scheduler"
)

// Result is what a single HTTP request belonging to a meta-request
// produced, captured from the request package's OnResponse hook before
// retry classification runs.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Err        error
}

func (r Result) ok() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// buildFunc constructs the Op for the given 1-based attempt number — the
// same logical request, re-signed (a fresh Op, fresh signature/timestamp)
// on every retry.
type buildFunc func(attempt int) *request.Op

// pendingOp is what a variant stashes per in-flight *request.Op so that
// OnRequestComplete (which only gets the opaque Request handle back) can
// find which retrySlot and which logical step issued it.
type pendingOp struct {
	slot  *retrySlot
	kind  int
	index int64
}

// retrySlot drives one logical HTTP request through retry.Controller's
// budget: NextRequest/OnRequestComplete pairs the scheduler expects,
// reissuing the same logical request under a freshly built Op on a
// Transient classification until the budget is exhausted,
// at which point it is reported Fatal.
type retrySlot struct {
	mu      sync.Mutex
	build   buildFunc
	ctl     retry.Controller
	attempt int
	op      *request.Op
	ready   bool
	done    bool
	result  Result
	class   retry.Class
}

func newRetrySlot(build buildFunc, ctl retry.Controller) *retrySlot {
	if ctl == nil {
		ctl = retry.New(retry.Config{})
	}
	return &retrySlot{build: build, ctl: ctl}
}

// next returns Ready with a newly built Op on the first call and after
// every granted retry, NotYet while a dispatch is outstanding, and
// Finished once the slot has reached a terminal state.
func (s *retrySlot) next(_ context.Context) (scheduler.Request, scheduler.RequestState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil, scheduler.Finished
	}
	if s.ready {
		return nil, scheduler.NotYet
	}

	s.attempt++
	s.op = s.build(s.attempt)
	s.wrapOnResponseLocked()
	s.ready = true

	return s.op, scheduler.Ready
}

// wrapOnResponseLocked captures the classified outcome onto the slot
// before invoking whatever OnResponse hook the variant's buildFunc set,
// so variant code never needs to re-derive retry.Classify itself.
func (s *retrySlot) wrapOnResponseLocked() {
	userHook := s.op.OnResponse
	s.op.OnResponse = func(resp *http.Response, body []byte, err error) {
		s.mu.Lock()
		s.class = retry.Classify(resp, err)
		r := Result{Err: err, Body: body}
		if resp != nil {
			r.StatusCode = resp.StatusCode
			r.Header = resp.Header
		}
		s.result = r
		s.mu.Unlock()

		if userHook != nil {
			userHook(resp, body, err)
		}
	}
}

// complete reports whether the slot reached a terminal state (Success or
// Fatal) and, if so, the captured Result. A false terminal means a retry
// was granted and the next next() call issues it.
func (s *retrySlot) complete(outcome scheduler.Outcome) (terminal bool, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = false

	switch s.class {
	case retry.Success:
		s.done = true
		return true, s.result
	case retry.Transient:
		if s.ctl.Allow(s.attempt + 1) {
			return false, Result{}
		}
		s.done = true
		if s.result.Err == nil {
			s.result.Err = outcome.Err
		}
		return true, s.result
	default: // retry.Fatal
		s.done = true
		return true, s.result
	}
}
