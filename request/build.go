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
	"net/http"
	"net/url"
)

// buildHTTPRequest clones op into a concrete *http.Request: substitutes
// Host, path and query, and Content-Length for a request carrying a body.
func buildHTTPRequest(ctx context.Context, op *Op) (*http.Request, error) {
	if op == nil || op.VirtualHost == "" || op.Path == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	u := &url.URL{
		Scheme: "https",
		Host:   op.VirtualHost,
		Path:   op.Path,
	}
	if op.Query != nil {
		u.RawQuery = op.Query.Encode()
	}

	var body *bytes.Reader
	if len(op.Body) > 0 {
		body = bytes.NewReader(op.Body)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, u.String(), body)
	if err != nil {
		return nil, ErrorBuildFailed.Error(err)
	}

	req.Host = op.VirtualHost
	if op.Headers != nil {
		for k, vs := range op.Headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if len(op.Body) > 0 {
		req.ContentLength = int64(len(op.Body))
	}

	return req, nil
}
