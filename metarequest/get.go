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
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	libmpu "github.com/nabbar/s3transfer/aws/multipart"
	"github.com/nabbar/s3transfer/request"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/scheduler"
	libsiz "github.com/nabbar/s3transfer/size"
	"github.com/nabbar/s3transfer/stream"
)

const (
	kindPreflight = iota
	kindPart
)

type gPhase uint8

const (
	gPhasePreflight gPhase = iota
	gPhaseStreaming
	gPhaseDone
)

// GetConfig configures an AutoRangedGet.
type GetConfig struct {
	VirtualHost string
	Path        string
	Headers     http.Header

	// PartSize is the ranged-GET window size; 0 uses
	// aws/multipart.DefaultPartSize, the same sizing the multipart PUT
	// path uses, reused here for its GET counterpart.
	PartSize libsiz.Size
	// Window bounds how many parts may be in flight at once; 0 means 4.
	Window int
	Retry  retry.Controller

	// OnChunk delivers part index, byte offset and data, strictly in
	// ascending index order regardless of completion order, via the
	// object's dedicated stream.Queue.
	OnChunk func(index int64, offset int64, data []byte)
	// OnComplete fires exactly once: nil on success, non-nil on the
	// first permanent part failure or a failed preflight.
	OnComplete func(err error)
}

// AutoRangedGet is the Preflight/Streaming/Done meta-request variant. A
// preflight HEAD learns Content-Length; if the object is smaller than one
// part it degrades to a single whole-object GET (one part covering the
// whole range) before issuing any ranged part requests.
type AutoRangedGet struct {
	id  uint64
	cfg GetConfig

	partSize int64
	window   int

	queue        stream.Queue
	queueStarted bool

	mu            sync.Mutex
	phase         gPhase
	contentLength int64
	numParts      int64
	nextIssue     int64
	delivered     int64
	firstErr      error

	preflightSlot *retrySlot
	partSlots     map[int64]*retrySlot
	pending       map[*request.Op]*pendingOp

	fired atomic.Bool
}

// NewAutoRangedGet builds an AutoRangedGet for one object.
func NewAutoRangedGet(id uint64, cfg GetConfig) *AutoRangedGet {
	if cfg.PartSize <= 0 {
		cfg.PartSize = libmpu.DefaultPartSize
	}
	if cfg.Window <= 0 {
		cfg.Window = 4
	}

	g := &AutoRangedGet{
		id:        id,
		cfg:       cfg,
		partSize:  cfg.PartSize.Int64(),
		window:    cfg.Window,
		partSlots: make(map[int64]*retrySlot),
		pending:   make(map[*request.Op]*pendingOp),
	}
	g.queue = stream.New(0, g.onDeliver)
	return g
}

func (g *AutoRangedGet) ID() uint64 {
	return g.id
}

func (g *AutoRangedGet) NextRequest(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	g.mu.Lock()
	if !g.queueStarted {
		_ = g.queue.Start(ctx)
		g.queueStarted = true
	}
	phase := g.phase
	g.mu.Unlock()

	switch phase {
	case gPhaseDone:
		return nil, scheduler.Finished
	case gPhasePreflight:
		return g.nextPreflight(ctx)
	default:
		return g.nextPart(ctx)
	}
}

func (g *AutoRangedGet) nextPreflight(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	g.mu.Lock()
	if g.preflightSlot == nil {
		g.preflightSlot = newRetrySlot(g.buildPreflight, g.cfg.Retry)
	}
	slot := g.preflightSlot
	g.mu.Unlock()

	req, state := slot.next(ctx)
	if state == scheduler.Ready {
		g.mu.Lock()
		g.pending[req.(*request.Op)] = &pendingOp{slot: slot, kind: kindPreflight}
		g.mu.Unlock()
	}
	return req, state
}

func (g *AutoRangedGet) nextPart(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	g.mu.Lock()
	if g.nextIssue >= g.numParts {
		g.mu.Unlock()
		// Every part has been issued (and, once partSlots drains, completed),
		// but the stream.Queue delivers and fires finish()/OnComplete on its
		// own goroutine — Finished is reported only once that has actually
		// happened (phase reaches gPhaseDone), never just because no more
		// requests are outstanding here.
		return nil, scheduler.NotYet
	}
	if len(g.partSlots) >= g.window {
		g.mu.Unlock()
		return nil, scheduler.NotYet
	}

	idx := g.nextIssue
	g.nextIssue++
	slot := newRetrySlot(g.buildPart(idx), g.cfg.Retry)
	g.partSlots[idx] = slot
	g.mu.Unlock()

	req, state := slot.next(ctx)
	if state != scheduler.Ready {
		return req, state
	}

	g.mu.Lock()
	g.pending[req.(*request.Op)] = &pendingOp{slot: slot, kind: kindPart, index: idx}
	g.mu.Unlock()

	return req, scheduler.Ready
}

func (g *AutoRangedGet) OnRequestComplete(req scheduler.Request, outcome scheduler.Outcome) {
	op, ok := req.(*request.Op)
	if !ok {
		return
	}

	g.mu.Lock()
	p, found := g.pending[op]
	if found {
		delete(g.pending, op)
	}
	g.mu.Unlock()
	if !found {
		return
	}

	terminal, result := p.slot.complete(outcome)
	if !terminal {
		return
	}

	switch p.kind {
	case kindPreflight:
		g.completePreflight(result)
	case kindPart:
		g.completePart(p.index, result)
	}
}

func (g *AutoRangedGet) buildPreflight(_ int) *request.Op {
	op := &request.Op{
		Method:      http.MethodHead,
		VirtualHost: g.cfg.VirtualHost,
		Path:        g.cfg.Path,
		Headers:     g.cfg.Headers,
	}
	op.OnResponse = func(resp *http.Response, _ []byte, err error) {
		if err != nil || resp == nil {
			return
		}
		if cl := resp.Header.Get("Content-Length"); cl != "" {
			if n, e := strconv.ParseInt(cl, 10, 64); e == nil {
				g.mu.Lock()
				g.contentLength = n
				g.mu.Unlock()
			}
		}
	}
	return op
}

func (g *AutoRangedGet) buildPart(index int64) buildFunc {
	return func(_ int) *request.Op {
		g.mu.Lock()
		length := g.contentLength
		g.mu.Unlock()

		start := index * g.partSize
		end := start + g.partSize - 1
		if end > length-1 {
			end = length - 1
		}

		return &request.Op{
			Method:      http.MethodGet,
			VirtualHost: g.cfg.VirtualHost,
			Path:        g.cfg.Path,
			Headers: http.Header{
				"Range": []string{fmt.Sprintf("bytes=%d-%d", start, end)},
			},
		}
	}
}

func (g *AutoRangedGet) completePreflight(result Result) {
	g.mu.Lock()
	failed := !result.ok()
	if failed {
		g.phase = gPhaseDone
	} else {
		if g.contentLength <= g.partSize {
			g.numParts = 1
		} else {
			g.numParts = (g.contentLength + g.partSize - 1) / g.partSize
		}
		g.phase = gPhaseStreaming
	}
	g.mu.Unlock()

	if !failed {
		return
	}

	err := result.Err
	if err == nil {
		err = ErrorParamInvalid.Error(nil)
	}
	if g.cfg.OnComplete != nil && g.fired.CompareAndSwap(false, true) {
		g.cfg.OnComplete(err)
	}
}

func (g *AutoRangedGet) completePart(idx int64, result Result) {
	failed := !result.ok()

	g.mu.Lock()
	delete(g.partSlots, idx)
	if failed && g.firstErr == nil {
		err := result.Err
		if err == nil {
			err = ErrorParamInvalid.Error(nil)
		}
		g.firstErr = err
		g.nextIssue = g.numParts
	}
	remaining := len(g.partSlots)
	drained := g.nextIssue >= g.numParts && remaining == 0
	firstErr := g.firstErr
	g.mu.Unlock()

	if failed {
		if drained && firstErr != nil {
			g.finish(firstErr)
		}
		return
	}

	_ = g.queue.Push(stream.Chunk{Index: idx, Offset: idx * g.partSize, Data: result.Body})
}

// onDeliver is the stream.Queue's in-order delivery callback: it invokes
// the caller's OnChunk hook and, once every part has been delivered in
// order, reports success.
func (g *AutoRangedGet) onDeliver(c stream.Chunk) {
	if g.cfg.OnChunk != nil {
		g.cfg.OnChunk(c.Index, c.Offset, c.Data)
	}

	g.mu.Lock()
	g.delivered++
	done := g.numParts > 0 && g.delivered >= g.numParts
	g.mu.Unlock()

	if done {
		g.finish(nil)
	}
}

func (g *AutoRangedGet) finish(err error) {
	_ = g.queue.Stop(context.Background())

	g.mu.Lock()
	g.phase = gPhaseDone
	g.mu.Unlock()

	if g.cfg.OnComplete != nil && g.fired.CompareAndSwap(false, true) {
		g.cfg.OnComplete(err)
	}
}
