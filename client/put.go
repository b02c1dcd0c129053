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
	"github.com/nabbar/s3transfer/metarequest"
	libsiz "github.com/nabbar/s3transfer/size"
)

// PutRequest describes one multipart PUT a caller hands to Put.
type PutRequest struct {
	Path        string
	ContentType string
	ObjectSize  int64

	// PartSize overrides Config.PartSize for this request; <= 0 inherits it.
	PartSize libsiz.Size
	// Window overrides Config.Window for this request; <= 0 inherits it.
	Window int

	NextPartBody func(index int64, size int64) ([]byte, error)
	OnComplete   func(err error)
}

// Put submits a MultipartPut meta-request (the Create/Upload/Complete/
// Abort state machine) and returns immediately; the caller observes
// completion through r.OnComplete.
func (c *Client) Put(r PutRequest) error {
	if !c.active.Load() {
		return ErrorClosed.Error(nil)
	}
	if r.Path == "" || r.NextPartBody == nil {
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
	mr := metarequest.NewMultipartPut(c.nextRequestID(), metarequest.PutConfig{
		VirtualHost:  c.cfg.VirtualHost,
		Path:         r.Path,
		ContentType:  r.ContentType,
		ObjectSize:   r.ObjectSize,
		PartSize:     partSize,
		Window:       window,
		Retry:        c.retry,
		NextPartBody: r.NextPartBody,
		OnComplete: func(err error) {
			defer c.intRef.add(-1)
			if c.metrics != nil {
				c.metrics.observeRequest("put", err)
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
