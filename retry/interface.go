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

// Package retry classifies request outcomes and hands out retry tokens
// from a budget, using hashicorp/go-retryablehttp's own backoff curve so
// a retried request waits the same amount of time a retryablehttp.Client
// would wait for the same attempt number.
package retry

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	libdur "github.com/nabbar/s3transfer/duration"
)

// Class is the outcome classification for one request attempt.
type Class uint8

const (
	// Success means the request completed with a 2xx status.
	Success Class = iota
	// Transient means the failure may succeed on retry (connection reset,
	// 5xx, 429, signing clock-skew).
	Transient
	// Fatal means the failure is sticky: 4xx outside the retriable subset,
	// or the retry budget is exhausted.
	Fatal
)

// Classify maps an HTTP round-trip outcome to a Class.
func Classify(resp *http.Response, err error) Class {
	if err != nil {
		return Transient
	}
	if resp == nil {
		return Transient
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Success
	case resp.StatusCode == http.StatusTooManyRequests:
		return Transient
	case resp.StatusCode >= 500:
		return Transient
	case resp.StatusCode >= 400:
		return Fatal
	default:
		return Success
	}
}

// Config configures a Controller.
type Config struct {
	// MaxRetries bounds retries per request; 0 means use DefaultMaxRetries.
	MaxRetries int
	MinWait    libdur.Duration
	MaxWait    libdur.Duration
}

const DefaultMaxRetries = 5

// Controller hands out retry tokens bounded by a per-request budget and
// reports the backoff duration to wait before the next attempt.
type Controller interface {
	// Allow reports whether attempt (1-based, the attempt about to be
	// made) is still within budget for a request that has already made
	// attempt-1 tries.
	Allow(attempt int) bool

	// Backoff returns how long to wait before attempt, given the last
	// response (may be nil).
	Backoff(attempt int, resp *http.Response) time.Duration
}

// New builds a Controller from cfg.
func New(cfg Config) Controller {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MinWait.Time() <= 0 {
		cfg.MinWait = libdur.ParseDuration(time.Second)
	}
	if cfg.MaxWait.Time() <= 0 {
		cfg.MaxWait = libdur.ParseDuration(30 * time.Second)
	}

	return &controller{cfg: cfg}
}

type controller struct {
	cfg Config
}

func (c *controller) Allow(attempt int) bool {
	return attempt <= c.cfg.MaxRetries
}

func (c *controller) Backoff(attempt int, resp *http.Response) time.Duration {
	return retryablehttp.DefaultBackoff(c.cfg.MinWait.Time(), c.cfg.MaxWait.Time(), attempt, resp)
}
