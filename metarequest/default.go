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

// Package metarequest implements the three meta-request state machines the
// scheduler's uniform MetaRequest contract requires: Default (single
// request), AutoRangedGet (a preflight HEAD followed by windowed ranged
// GETs reassembled in order) and MultipartPut (Create/Upload/Complete/
// Abort). Every variant is built on the shared retrySlot, which applies a
// retry budget per logical request.
package metarequest

import (
	"context"
	"sync/atomic"

	"github.com/nabbar/s3transfer/request"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/scheduler"
)

// DefaultRequest is the single-request meta-request variant: Ready once,
// NotYet until completion, Finished after, firing OnComplete exactly once
// with the full response.
type DefaultRequest struct {
	id         uint64
	slot       *retrySlot
	onComplete func(Result)
	fired      atomic.Bool
}

// NewDefault builds a Default meta-request. build constructs the Op for
// the given 1-based attempt number — the same logical request, re-signed
// on retry; onComplete fires exactly once, after the retry budget
// resolves to Success or Fatal.
func NewDefault(id uint64, build func(attempt int) *request.Op, retryCtl retry.Controller, onComplete func(Result)) *DefaultRequest {
	return &DefaultRequest{
		id:         id,
		slot:       newRetrySlot(build, retryCtl),
		onComplete: onComplete,
	}
}

func (d *DefaultRequest) ID() uint64 {
	return d.id
}

func (d *DefaultRequest) NextRequest(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	return d.slot.next(ctx)
}

func (d *DefaultRequest) OnRequestComplete(_ scheduler.Request, outcome scheduler.Outcome) {
	terminal, result := d.slot.complete(outcome)
	if !terminal {
		return
	}
	if d.onComplete != nil && d.fired.CompareAndSwap(false, true) {
		d.onComplete(result)
	}
}
