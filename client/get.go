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

package client

import (
	"net/http"

	"github.com/nabbar/s3transfer/metarequest"
	libsiz "github.com/nabbar/s3transfer/size"
)

// GetRequest describes one auto-ranged GET a caller hands to Get.
type GetRequest struct {
	Path    string
	Headers http.Header

	// PartSize overrides Config.PartSize for this request; <= 0 inherits it.
	PartSize libsiz.Size
	// Window overrides Config.Window for this request; <= 0 inherits it.
	Window int

	OnChunk    func(index int64, offset int64, data []byte)
	OnComplete func(err error)
}

// Get submits an AutoRangedGet meta-request (the Preflight/Streaming/Done
// state machine) and returns immediately; the caller observes progress
// and completion entirely through r.OnChunk and r.OnComplete.
func (c *Client) Get(r GetRequest) error {
	if !c.active.Load() {
		return ErrorClosed.Error(nil)
	}
	if r.Path == "" {
		return ErrorParamEmpty.Error(nil)
	}

	partSize := r.PartSize
	if partSize <= 0 {
		partSize = c.cfg.PartSize
	}
	window := r.Window
	if window <= 0 {
		window = c.cfg.Window
	}

	c.intRef.add(1)
	onComplete := r.OnComplete
	mr := metarequest.NewAutoRangedGet(c.nextRequestID(), metarequest.GetConfig{
		VirtualHost: c.cfg.VirtualHost,
		Path:        r.Path,
		Headers:     r.Headers,
		PartSize:    partSize,
		Window:      window,
		Retry:       c.retry,
		OnChunk:     r.OnChunk,
		OnComplete: func(err error) {
			defer c.intRef.add(-1)
			if c.metrics != nil {
				c.metrics.observeRequest("get", err)
			}
			if onComplete != nil {
				onComplete(err)
			}
		},
	})

	if err := c.sched.Submit(mr); err != nil {
		c.intRef.add(-1)
		return err
	}
	return nil
}
