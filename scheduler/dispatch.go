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

package scheduler

import (
	"container/list"
	"context"

	connpkg "github.com/nabbar/s3transfer/conn"
)

// run is the scheduler's FuncStart: one goroutine, looping until ctx is
// done, performing the four phases (drain updates, intake meta-requests,
// dispatch loop, reschedule) on every wake-up.
func (s *scheduler) run(ctx context.Context) error {
	updates := s.cfg.Pool.Updates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-updates:
			s.drainConnUpdate(u)
		case mr := <-s.intake:
			s.drainIntake(mr)
		case c := <-s.done:
			s.drainCompletion(c)
		case <-s.wake:
		}

		s.cycle(ctx, updates)
	}
}

// cycle runs phases 1-4 to exhaustion of whatever is immediately pending,
// then dispatches as much ready work as the in-flight cap allows.
func (s *scheduler) cycle(ctx context.Context, updates <-chan connpkg.ConnectionUpdate) {
	for {
		select {
		case u := <-updates:
			s.drainConnUpdate(u)
			continue
		case mr := <-s.intake:
			s.drainIntake(mr)
			continue
		case c := <-s.done:
			s.drainCompletion(c)
			continue
		default:
		}
		break
	}

	progressed := s.dispatchLoop(ctx)

	if progressed {
		s.wakeUp()
	}
}

// drainConnUpdate acknowledges a pool update. The pool's own idle list
// (drained via PopIdle in dispatchLoop) is already authoritative for which
// VIP-connections are available; this phase exists so a future metrics/log
// hook has a single place to observe VIP-connection churn during the
// dispatch loop's "drain updates" step.
func (s *scheduler) drainConnUpdate(_ connpkg.ConnectionUpdate) {
}

func (s *scheduler) drainIntake(mr MetaRequest) {
	if mr == nil {
		return
	}
	e := s.active.PushBack(mr)
	s.byID[mr.ID()] = e
	s.activeLen.Store(int32(s.active.Len()))
}

func (s *scheduler) drainCompletion(c completion) {
	c.mr.OnRequestComplete(c.req, c.outcome)

	if c.outcome.ShouldRetire {
		s.cfg.Pool.Retire(c.vc, c.outcome.Retire)
	} else {
		s.cfg.Pool.Return(c.vc)
	}

	s.cfg.InFlight.DeferWorker()
}

// dispatchLoop is phase 3: while there is an idle connection and some
// meta-request has a ready request, assign and dispatch. Returns true if
// any work remains that a subsequent cycle might be able to make progress
// on (back-pressure or no ready request right now, but the active list is
// non-empty).
func (s *scheduler) dispatchLoop(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			return false
		}

		if !s.cfg.InFlight.NewWorkerTry() {
			return s.active.Len() > 0
		}

		vc, ok := s.popIdle()
		if !ok {
			s.cfg.InFlight.DeferWorker()
			return false
		}

		mr, req, ok := s.nextReady(ctx)
		if !ok {
			s.cfg.InFlight.DeferWorker()
			s.cfg.Pool.Return(vc)
			return false
		}

		go s.dispatchOne(ctx, vc, mr, req)
	}
}

func (s *scheduler) dispatchOne(ctx context.Context, vc *connpkg.VIPConnection, mr MetaRequest, req Request) {
	vc.RecordRequest()

	s.cfg.Dispatch(ctx, vc, mr, req, func(outcome Outcome) {
		s.done <- completion{vc: vc, mr: mr, req: req, outcome: outcome}
		s.wakeUp()
	})
}

func (s *scheduler) popIdle() (*connpkg.VIPConnection, bool) {
	return s.cfg.Pool.PopIdle()
}

// nextReady walks the active list from the fairness cursor, returning the
// first ready request found within one full lap. Finished meta-requests
// are removed in place; container/list gives O(1) removal so a mid-lap
// removal never disturbs the cursor's notion of "next survivor".
func (s *scheduler) nextReady(ctx context.Context) (MetaRequest, Request, bool) {
	n := s.active.Len()

	for i := 0; i < n; i++ {
		e := s.cursor
		if e == nil {
			e = s.active.Front()
		}
		if e == nil {
			return nil, nil, false
		}

		mr := e.Value.(MetaRequest)
		req, state := mr.NextRequest(ctx)

		switch state {
		case Ready:
			s.cursor = e.Next()
			return mr, req, true
		case Finished:
			next := e.Next()
			s.removeActive(e, mr)
			s.cursor = next
		default: // NotYet
			s.cursor = e.Next()
		}
	}

	return nil, nil, false
}

func (s *scheduler) removeActive(e *list.Element, mr MetaRequest) {
	s.active.Remove(e)
	delete(s.byID, mr.ID())
	s.activeLen.Store(int32(s.active.Len()))
}

// shutdown is the scheduler's FuncStop: it does not forcibly cancel
// in-flight dispatches (they carry their own ctx and report completion
// independently); it only marks the scheduler stopped for Submit.
func (s *scheduler) shutdown(_ context.Context) error {
	return nil
}
