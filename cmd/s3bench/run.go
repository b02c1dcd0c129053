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
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nabbar/s3transfer/client"
	"github.com/nabbar/s3transfer/retry"
	"github.com/nabbar/s3transfer/vip"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildClient wires a client.Client from the loaded benchConfig, the same
// way a long-lived server would: one Client per endpoint, VIP count and
// part size driven entirely by config.
func buildClient(cfg benchConfig) (*client.Client, error) {
	partSize, err := cfg.partSize()
	if err != nil {
		return nil, fmt.Errorf("part_size: %w", err)
	}
	sweep, err := cfg.sweepEvery()
	if err != nil {
		return nil, fmt.Errorf("sweep_every: %w", err)
	}

	c, err := client.New(client.Config{
		VirtualHost: cfg.Host,
		AWS:         cfg.awsConfig(),
		VIP: vip.Config{
			IdealVIPCount: cfg.VIPCeil,
			RefreshEvery:  sweep,
		},
		SweepEvery:    sweep,
		InFlightLimit: int64(cfg.Window * cfg.VIPCeil),
		Retry: retry.Config{
			MaxRetries: retry.DefaultMaxRetries,
		},
		PartSize: partSize,
		Window:   cfg.Window,
		Metrics:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}
	return c, nil
}

// serveMetrics starts the prometheus HTTP endpoint in the background;
// cmd/s3bench's caller stops it by cancelling ctx.
func serveMetrics(ctx context.Context, listen string) {
	if listen == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listen, Handler: mux}

	go func() {
		_ = srv.ListenAndServe()
	}()
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
}
