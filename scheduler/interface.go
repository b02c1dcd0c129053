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

// Package scheduler is the single cooperative dispatch loop that pairs idle
// VIP-connections with ready requests from the active meta-request set,
// round-robining across meta-requests for fairness and capping total
// requests in flight for back-pressure.
package scheduler

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	connpkg "github.com/nabbar/s3transfer/conn"
	"github.com/nabbar/s3transfer/runner/startStop"
	"github.com/nabbar/s3transfer/semaphore/sem"
)

// RequestState is a meta-request's answer to NextRequest.
type RequestState uint8

const (
	// Ready means req is populated and may be dispatched now.
	Ready RequestState = iota
	// NotYet means no request is ready yet, but the meta-request is not
	// finished (e.g. waiting on an in-flight window or preflight result).
	NotYet
	// Finished means the meta-request has no more work and can be
	// removed from the active list.
	Finished
)

// Request is an opaque handle a MetaRequest hands to the scheduler and
// receives back, unmodified, in OnRequestComplete.
type Request interface{}

// Outcome is reported back by the dispatcher once a request completes.
type Outcome struct {
	Err          error
	ShouldRetire bool
	Retire       connpkg.RetireReason
}

// MetaRequest is the uniform interface every meta-request variant (Default,
// Auto-ranged GET, Multipart PUT) exposes to the scheduler.
type MetaRequest interface {
	ID() uint64
	NextRequest(ctx context.Context) (Request, RequestState)
	OnRequestComplete(req Request, outcome Outcome)
}

// Dispatcher issues req asynchronously over vc on behalf of mr, and calls
// complete exactly once with the outcome. Implementations (package
// request/signing) are expected to run the actual I/O on their own
// goroutine; Scheduler does not block waiting for it.
type Dispatcher func(ctx context.Context, vc *connpkg.VIPConnection, mr MetaRequest, req Request, complete func(Outcome))

// Config configures a Scheduler.
type Config struct {
	Pool      connpkg.Pool
	InFlight  sem.Sem
	Dispatch  Dispatcher
	QueueSize int
}

// Scheduler is the goroutine-lifecycle-wrapped dispatch loop.
type Scheduler interface {
	// Start launches the scheduler loop. See runner/startStop.StartStop.
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool

	// Submit enqueues a newly created meta-request for intake on the
	// scheduler's next cycle. Returns ErrorSubmitClosed if the scheduler
	// was stopped.
	Submit(mr MetaRequest) error

	// ActiveCount returns the number of meta-requests currently tracked
	// in the active list (approximate: read without the worker lock).
	ActiveCount() int
}

func defaultQueueSize(n int) int {
	if n <= 0 {
		return 128
	}
	return n
}

// New builds a Scheduler. cfg.Pool and cfg.Dispatch must be non-nil.
func New(cfg Config) Scheduler {
	s := &scheduler{
		cfg:    cfg,
		intake: make(chan MetaRequest, defaultQueueSize(cfg.QueueSize)),
		done:   make(chan completion, defaultQueueSize(cfg.QueueSize)),
		wake:   make(chan struct{}, 1),
		active: list.New(),
		byID:   make(map[uint64]*list.Element),
	}
	s.lifecycle = startStop.New(s.run, s.shutdown)
	return s
}

type completion struct {
	vc      *connpkg.VIPConnection
	mr      MetaRequest
	req     Request
	outcome Outcome
}

type scheduler struct {
	cfg Config

	lifecycle startStop.StartStop

	intake chan MetaRequest
	done   chan completion
	wake   chan struct{}

	submitMu sync.RWMutex
	closed   bool

	// worker-only state: touched only from the run goroutine.
	active *list.List
	byID   map[uint64]*list.Element
	cursor *list.Element

	activeLen atomic.Int32
}

func (s *scheduler) Start(ctx context.Context) error {
	s.submitMu.Lock()
	s.closed = false
	s.submitMu.Unlock()
	return s.lifecycle.Start(ctx)
}

func (s *scheduler) Stop(ctx context.Context) error {
	s.submitMu.Lock()
	s.closed = true
	s.submitMu.Unlock()
	return s.lifecycle.Stop(ctx)
}

func (s *scheduler) IsRunning() bool {
	return s.lifecycle.IsRunning()
}

func (s *scheduler) Submit(mr MetaRequest) error {
	if mr == nil {
		return ErrorParamEmpty.Error(nil)
	}

	s.submitMu.RLock()
	closed := s.closed
	s.submitMu.RUnlock()

	if closed {
		return ErrorSubmitClosed.Error(nil)
	}

	s.intake <- mr
	s.wakeUp()
	return nil
}

func (s *scheduler) ActiveCount() int {
	return int(s.activeLen.Load())
}

func (s *scheduler) wakeUp() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
