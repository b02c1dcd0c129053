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

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nabbar/s3transfer/client"
)

// newPutRequest builds a PutRequest whose NextPartBody generates
// deterministic pseudo-random bytes for size, seeded by seed, so repeated
// runs against the same index produce the same payload without holding
// the whole object in memory at once.
func newPutRequest(key string, size int64, seed *rand.Rand, onComplete func(error)) client.PutRequest {
	return client.PutRequest{
		Path:        key,
		ContentType: "application/octet-stream",
		ObjectSize:  size,
		NextPartBody: func(index int64, partSize int64) ([]byte, error) {
			buf := make([]byte, partSize)
			_, _ = seed.Read(buf)
			return buf, nil
		},
		OnComplete: onComplete,
	}
}

func reportThroughput(op string, total, failed int, bytes int64, elapsed time.Duration) {
	ok := total - failed
	secs := elapsed.Seconds()
	var gbps float64
	if secs > 0 {
		gbps = (float64(bytes) * 8 / 1e9) / secs
	}
	fmt.Printf("%s: %d/%d ok, %d failed, %d bytes in %s (%.3f Gbps)\n",
		op, ok, total, failed, bytes, elapsed.Round(time.Millisecond), gbps)
}
