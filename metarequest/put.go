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
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	libmpu "github.com/nabbar/s3transfer/aws/multipart"
	"github.com/nabbar/s3transfer/request"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/scheduler"
	libsiz "github.com/nabbar/s3transfer/size"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdktyp "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	kindCreate = iota
	kindUpload
	kindComplete
	kindAbort
)

type pPhase uint8

const (
	pPhaseCreate pPhase = iota
	pPhaseUpload
	pPhaseComplete
	pPhaseAborting
	pPhaseDone
)

// PutConfig configures a MultipartPut.
type PutConfig struct {
	VirtualHost string
	Path        string
	ContentType string

	// ObjectSize is the total size to upload, used to pick an optimal
	// part size via aws/multipart.GetOptimalPartSize, the same sizing
	// algorithm a synchronous multipart uploader would use.
	ObjectSize int64
	PartSize   libsiz.Size
	// Window bounds how many parts may be uploading at once; 0 means 4.
	Window int
	Retry  retry.Controller

	// NextPartBody returns the bytes for part index (0-based), sized up
	// to size; io.EOF-equivalent (empty, nil error) is never requested
	// past the part count computed from ObjectSize/PartSize.
	NextPartBody func(index int64, size int64) ([]byte, error)
	// OnComplete fires exactly once: nil on success, non-nil after a
	// part permanently fails and the upload has been aborted.
	OnComplete func(err error)
}

// MultipartPut is the Create/Upload/Complete/Abort meta-request variant,
// grounded on aws/multipart's own state transitions (start.go/part.go/
// stop.go) but issuing every request individually, signed and dispatched
// through request/signing instead of the AWS SDK's own synchronous
// *s3.Client (see DESIGN.md for why that SDK client cannot be called from
// here).
type MultipartPut struct {
	id  uint64
	cfg PutConfig

	partSize int64
	numParts int64
	window   int

	mu       sync.Mutex
	phase    pPhase
	uploadID string
	nextIdx  int64
	firstErr error

	createSlot   *retrySlot
	uploadSlots  map[int64]*retrySlot
	completeSlot *retrySlot
	abortSlot    *retrySlot
	pending      map[*request.Op]*pendingOp

	// etags is the ETag table keyed by part index, the same element type
	// (sdktyp.CompletedPart) aws/multipart's mpu.RegisterPart collects
	// into before building a CompleteMultipartUpload request.
	etagsMu sync.Mutex
	etags   map[int64]sdktyp.CompletedPart

	fired atomic.Bool
}

// NewMultipartPut builds a MultipartPut for one object.
func NewMultipartPut(id uint64, cfg PutConfig) *MultipartPut {
	partSize := cfg.PartSize
	if partSize <= 0 {
		partSize = libmpu.DefaultPartSize
	}
	if optimal, err := libmpu.GetOptimalPartSize(libsiz.SizeFromInt64(cfg.ObjectSize), partSize); err == nil {
		partSize = optimal
	}
	if cfg.Window <= 0 {
		cfg.Window = 4
	}

	ps := partSize.Int64()
	numParts := int64(1)
	if ps > 0 && cfg.ObjectSize > 0 {
		numParts = (cfg.ObjectSize + ps - 1) / ps
	}

	return &MultipartPut{
		id:          id,
		cfg:         cfg,
		partSize:    ps,
		numParts:    numParts,
		window:      cfg.Window,
		uploadSlots: make(map[int64]*retrySlot),
		pending:     make(map[*request.Op]*pendingOp),
		etags:       make(map[int64]sdktyp.CompletedPart),
	}
}

func (p *MultipartPut) ID() uint64 {
	return p.id
}

func (p *MultipartPut) NextRequest(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	p.mu.Lock()
	phase := p.phase
	p.mu.Unlock()

	switch phase {
	case pPhaseDone:
		return nil, scheduler.Finished
	case pPhaseCreate:
		return p.nextCreate(ctx)
	case pPhaseUpload:
		return p.nextUpload(ctx)
	case pPhaseComplete:
		return p.nextComplete(ctx)
	default:
		return p.nextAbort(ctx)
	}
}

func (p *MultipartPut) nextCreate(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	p.mu.Lock()
	if p.createSlot == nil {
		p.createSlot = newRetrySlot(p.buildCreate, p.cfg.Retry)
	}
	slot := p.createSlot
	p.mu.Unlock()

	req, state := slot.next(ctx)
	if state == scheduler.Ready {
		p.mu.Lock()
		p.pending[req.(*request.Op)] = &pendingOp{slot: slot, kind: kindCreate}
		p.mu.Unlock()
	}
	return req, state
}

func (p *MultipartPut) nextUpload(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	p.mu.Lock()
	if p.nextIdx >= p.numParts {
		if len(p.uploadSlots) == 0 && p.phase == pPhaseUpload {
			p.phase = pPhaseComplete
		}
		p.mu.Unlock()
		return nil, scheduler.NotYet
	}
	if len(p.uploadSlots) >= p.window {
		p.mu.Unlock()
		return nil, scheduler.NotYet
	}

	idx := p.nextIdx
	p.nextIdx++
	slot := newRetrySlot(p.buildUpload(idx), p.cfg.Retry)
	p.uploadSlots[idx] = slot
	p.mu.Unlock()

	req, state := slot.next(ctx)
	if state != scheduler.Ready {
		return req, state
	}

	p.mu.Lock()
	p.pending[req.(*request.Op)] = &pendingOp{slot: slot, kind: kindUpload, index: idx}
	p.mu.Unlock()

	return req, scheduler.Ready
}

func (p *MultipartPut) nextComplete(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	p.mu.Lock()
	if p.completeSlot == nil {
		p.completeSlot = newRetrySlot(p.buildComplete, p.cfg.Retry)
	}
	slot := p.completeSlot
	p.mu.Unlock()

	req, state := slot.next(ctx)
	if state == scheduler.Ready {
		p.mu.Lock()
		p.pending[req.(*request.Op)] = &pendingOp{slot: slot, kind: kindComplete}
		p.mu.Unlock()
	}
	return req, state
}

func (p *MultipartPut) nextAbort(ctx context.Context) (scheduler.Request, scheduler.RequestState) {
	p.mu.Lock()
	if p.abortSlot == nil {
		p.abortSlot = newRetrySlot(p.buildAbort, p.cfg.Retry)
	}
	slot := p.abortSlot
	p.mu.Unlock()

	req, state := slot.next(ctx)
	if state == scheduler.Ready {
		p.mu.Lock()
		p.pending[req.(*request.Op)] = &pendingOp{slot: slot, kind: kindAbort}
		p.mu.Unlock()
	}
	return req, state
}

func (p *MultipartPut) OnRequestComplete(req scheduler.Request, outcome scheduler.Outcome) {
	op, ok := req.(*request.Op)
	if !ok {
		return
	}

	p.mu.Lock()
	pend, found := p.pending[op]
	if found {
		delete(p.pending, op)
	}
	p.mu.Unlock()
	if !found {
		return
	}

	terminal, result := pend.slot.complete(outcome)
	if !terminal {
		return
	}

	switch pend.kind {
	case kindCreate:
		p.completeCreate(result)
	case kindUpload:
		p.completeUpload(pend.index, result)
	case kindComplete:
		p.completeComplete(result)
	case kindAbort:
		p.completeAbort(result)
	}
}

func (p *MultipartPut) buildCreate(_ int) *request.Op {
	op := &request.Op{
		Method:      http.MethodPost,
		VirtualHost: p.cfg.VirtualHost,
		Path:        p.cfg.Path,
		Query:       url.Values{"uploads": []string{""}},
	}
	if p.cfg.ContentType != "" {
		op.Headers = http.Header{"Content-Type": []string{p.cfg.ContentType}}
	}
	op.OnResponse = func(resp *http.Response, body []byte, err error) {
		if err != nil || resp == nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return
		}
		if id, ok := topLevelTagValue(body, "UploadId"); ok && id != "" {
			p.mu.Lock()
			p.uploadID = id
			p.mu.Unlock()
		}
	}
	return op
}

func (p *MultipartPut) buildUpload(index int64) buildFunc {
	return func(_ int) *request.Op {
		p.mu.Lock()
		uploadID := p.uploadID
		p.mu.Unlock()

		start := index * p.partSize
		size := p.partSize
		if rem := p.cfg.ObjectSize - start; rem < size {
			size = rem
		}

		var body []byte
		if p.cfg.NextPartBody != nil {
			body, _ = p.cfg.NextPartBody(index, size)
		}

		op := &request.Op{
			Method:      http.MethodPut,
			VirtualHost: p.cfg.VirtualHost,
			Path:        p.cfg.Path,
			Query: url.Values{
				"partNumber": []string{strconv.FormatInt(index+1, 10)},
				"uploadId":   []string{uploadID},
			},
			Body: body,
		}

		// Guard signing the payload hash on the hash value's own length,
		// not on an unrelated field.
		if len(body) > 0 {
			sum := sha256.Sum256(body)
			hash := hex.EncodeToString(sum[:])
			if len(hash) > 0 {
				op.PayloadHash = hash
			}
		}

		idx := index
		op.OnResponse = func(resp *http.Response, _ []byte, err error) {
			if err != nil || resp == nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return
			}
			etag := strings.Trim(resp.Header.Get("ETag"), `"`)
			if etag == "" {
				return
			}
			p.etagsMu.Lock()
			p.etags[idx] = sdktyp.CompletedPart{
				ETag:       sdkaws.String(etag),
				PartNumber: sdkaws.Int32(int32(idx + 1)),
			}
			p.etagsMu.Unlock()
		}

		return op
	}
}

func (p *MultipartPut) buildComplete(_ int) *request.Op {
	p.mu.Lock()
	uploadID := p.uploadID
	p.mu.Unlock()

	p.etagsMu.Lock()
	parts := make([]completedPartXML, 0, len(p.etags))
	for _, cp := range p.etags {
		var (
			num  int32
			etag string
		)
		if cp.PartNumber != nil {
			num = *cp.PartNumber
		}
		if cp.ETag != nil {
			etag = *cp.ETag
		}
		parts = append(parts, completedPartXML{PartNumber: num, ETag: etag})
	}
	p.etagsMu.Unlock()

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	body, _ := xml.Marshal(completeMultipartUploadXML{Part: parts})

	op := &request.Op{
		Method:      http.MethodPost,
		VirtualHost: p.cfg.VirtualHost,
		Path:        p.cfg.Path,
		Query:       url.Values{"uploadId": []string{uploadID}},
		Body:        body,
	}
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		hash := hex.EncodeToString(sum[:])
		if len(hash) > 0 {
			op.PayloadHash = hash
		}
	}
	return op
}

func (p *MultipartPut) buildAbort(_ int) *request.Op {
	p.mu.Lock()
	uploadID := p.uploadID
	p.mu.Unlock()

	return &request.Op{
		Method:      http.MethodDelete,
		VirtualHost: p.cfg.VirtualHost,
		Path:        p.cfg.Path,
		Query:       url.Values{"uploadId": []string{uploadID}},
	}
}

func (p *MultipartPut) completeCreate(result Result) {
	p.mu.Lock()
	failed := !result.ok()
	if failed {
		p.firstErr = result.Err
	} else if p.uploadID == "" {
		failed = true
		p.firstErr = ErrorUploadIDMissing.Error(nil)
	}
	if failed {
		p.phase = pPhaseDone
	} else {
		p.phase = pPhaseUpload
	}
	p.mu.Unlock()

	if failed && p.cfg.OnComplete != nil && p.fired.CompareAndSwap(false, true) {
		p.cfg.OnComplete(p.firstErr)
	}
}

func (p *MultipartPut) completeUpload(idx int64, result Result) {
	failed := !result.ok()

	p.mu.Lock()
	delete(p.uploadSlots, idx)
	if failed && p.firstErr == nil {
		err := result.Err
		if err == nil {
			err = ErrorPartFailed.Error(nil)
		}
		p.firstErr = err
		p.nextIdx = p.numParts
	}
	allDrained := p.nextIdx >= p.numParts && len(p.uploadSlots) == 0
	firstErr := p.firstErr
	p.mu.Unlock()

	if allDrained && firstErr != nil {
		p.mu.Lock()
		p.phase = pPhaseAborting
		p.mu.Unlock()
	}
}

func (p *MultipartPut) completeComplete(result Result) {
	p.mu.Lock()
	if !result.ok() {
		if p.firstErr == nil {
			err := result.Err
			if err == nil {
				err = ErrorCompleteFailed.Error(nil)
			}
			p.firstErr = err
		}
		p.phase = pPhaseAborting
		p.mu.Unlock()
		return
	}
	p.phase = pPhaseDone
	err := p.firstErr
	p.mu.Unlock()

	if p.cfg.OnComplete != nil && p.fired.CompareAndSwap(false, true) {
		p.cfg.OnComplete(err)
	}
}

func (p *MultipartPut) completeAbort(_ Result) {
	// Best-effort: AbortMultipartUpload's own outcome is not surfaced to
	// the caller, only logged by the client package.
	p.mu.Lock()
	p.phase = pPhaseDone
	err := p.firstErr
	if err == nil {
		err = ErrorAborted.Error(nil)
	}
	p.mu.Unlock()

	if p.cfg.OnComplete != nil && p.fired.CompareAndSwap(false, true) {
		p.cfg.OnComplete(err)
	}
}
