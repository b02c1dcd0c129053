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

package request

import (
	"bytes"
	"context"
	"io"

	connpkg "github.com/nabbar/s3transfer/conn"
	libiot "github.com/nabbar/s3transfer/ioutils/bufferReadCloser"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/scheduler"
	"github.com/nabbar/s3transfer/signing"
)

// Issuer builds the concrete scheduler.Dispatcher for one signer/retry
// policy pair. Every metarequest variant shares a single Issuer: signing
// and retry classification have no per-request state.
type Issuer struct {
	Signer  signing.Signer
	Retry   retry.Controller
	MaxBody int64
}

// NewIssuer validates cfg and returns the bound scheduler.Dispatcher.
func NewIssuer(signer signing.Signer, retryCtl retry.Controller, maxBody int64) (scheduler.Dispatcher, error) {
	if signer == nil || retryCtl == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	if maxBody <= 0 {
		maxBody = 16 << 20
	}
	iss := &Issuer{Signer: signer, Retry: retryCtl, MaxBody: maxBody}
	return iss.Dispatch, nil
}

// Dispatch is the scheduler.Dispatcher: it signs req, issues it over vc's
// *http.Client, accumulates the response body, hands it to the issuing
// Op's OnResponse hook, then reports the classified Outcome. Spawns its own
// goroutine per call, per scheduler.Dispatcher's contract.
func (iss *Issuer) Dispatch(ctx context.Context, vc *connpkg.VIPConnection, mr scheduler.MetaRequest, req scheduler.Request, complete func(scheduler.Outcome)) {
	go iss.run(ctx, vc, req, complete)
}

func (iss *Issuer) run(ctx context.Context, vc *connpkg.VIPConnection, req scheduler.Request, complete func(scheduler.Outcome)) {
	op, ok := req.(*Op)
	if !ok || op == nil {
		complete(scheduler.Outcome{Err: ErrorParamInvalid.Error(nil)})
		return
	}

	httpReq, err := buildHTTPRequest(ctx, op)
	if err != nil {
		op.deliver(nil, nil, err)
		complete(scheduler.Outcome{Err: err})
		return
	}

	if err = iss.Signer.Sign(ctx, httpReq, op.PayloadHash); err != nil {
		err = ErrorSigningFailed.Error(err)
		op.deliver(nil, nil, err)
		complete(scheduler.Outcome{Err: err})
		return
	}

	cli := vc.Client()
	if cli == nil {
		err = ErrorConnectionFailed.Error(nil)
		op.deliver(nil, nil, err)
		complete(scheduler.Outcome{Err: err})
		return
	}

	vc.RecordRequest()
	resp, doErr := cli.Do(httpReq)

	var (
		body   []byte
		backed = &bytes.Buffer{}
		acc    = libiot.NewBuffer(backed, nil)
	)
	if doErr == nil && resp != nil && resp.Body != nil {
		_, copyErr := io.CopyN(acc, resp.Body, iss.MaxBody)
		if copyErr != nil && copyErr != io.EOF {
			doErr = copyErr
		}
		body = backed.Bytes()
		_ = resp.Body.Close()
	}

	op.deliver(resp, body, doErr)

	class := retry.Classify(resp, doErr)
	outcome := scheduler.Outcome{Err: doErr}

	switch class {
	case retry.Success:
		// vc stays healthy, scheduler's dispatch loop returns it to idle.
	case retry.Transient:
		outcome.ShouldRetire = doErr != nil
		if outcome.ShouldRetire {
			outcome.Retire = connpkg.RetireProtocolError
		}
	case retry.Fatal:
		if doErr == nil {
			outcome.Err = ErrorConnectionFailed.Error(nil)
		}
	}

	if resp != nil && resp.Close {
		outcome.ShouldRetire = true
		outcome.Retire = connpkg.RetireServerClosed
	}

	complete(outcome)
}
