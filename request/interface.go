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

// Package request clones a meta-request's HTTP message template into a
// concrete *http.Request, signs it, and issues it over an acquired
// VIP-connection. Its Dispatch method is the concrete scheduler.Dispatcher
// every metarequest variant is built against.
package request

import (
	"net/http"
	"net/url"
)

// Op is the concrete scheduler.Request every metarequest variant produces:
// the clone-able HTTP message template for one request, plus the hook the
// issuing meta-request uses to recover the parsed response (UploadId, ETag,
// a GET chunk's bytes) before retry classification runs.
type Op struct {
	Method string

	// VirtualHost is the S3 endpoint hostname used for the Host header and
	// SigV4 signing; the TCP connection itself goes out over the acquired
	// VIP-connection's transport, which is already pinned to a resolved IP
	// regardless of this field.
	VirtualHost string
	Path        string
	Query       url.Values
	Headers     http.Header
	Body        []byte

	// PayloadHash is the lowercase hex SHA-256 of Body, or "" to sign as
	// an unsigned payload (streamed bodies).
	PayloadHash string

	// OnResponse is invoked synchronously on the dispatch goroutine once
	// the round trip completes (success or failure), before retry
	// classification, so the issuing meta-request can extract whatever it
	// needs from the raw response.
	OnResponse func(resp *http.Response, body []byte, err error)
}

func (op *Op) deliver(resp *http.Response, body []byte, err error) {
	if op == nil || op.OnResponse == nil {
		return
	}
	op.OnResponse(resp, body, err)
}
