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
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/s3transfer/client"
	spfcbr "github.com/spf13/cobra"
)

func newGetCommand(cfgPath *string) *spfcbr.Command {
	var (
		count       int
		concurrency int
		prefix      string
	)

	cmd := &spfcbr.Command{
		Use:     "get",
		Short:   "download objects concurrently and report throughput",
		Example: "s3bench get --config s3bench.yaml --count 50 --concurrency 8",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return runGet(*cfgPath, count, concurrency, prefix)
		},
	}

	cmd.Flags().IntVar(&count, "count", 20, "number of objects to download")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "objects in flight at once")
	cmd.Flags().StringVar(&prefix, "prefix", "s3bench", "key prefix of objects previously uploaded by put")

	return cmd
}

func runGet(cfgPath string, count, concurrency int, prefix string) error {
	cfg, err := loadBenchConfig(cfgPath)
	if err != nil {
		return err
	}

	cli, err := buildClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveMetrics(ctx, cfg.MetricsListen)

	if err := cli.Start(ctx); err != nil {
		return fmt.Errorf("starting client: %w", err)
	}
	defer func() { _ = cli.Release() }()

	var (
		wg         sync.WaitGroup
		failures   atomic.Int64
		totalBytes atomic.Int64
		inFlight   = make(chan struct{}, concurrency)
		start      = time.Now()
	)

	for i := 0; i < count; i++ {
		inFlight <- struct{}{}
		wg.Add(1)

		key := fmt.Sprintf("/%s/obj-%06d", prefix, i)

		err := cli.Get(client.GetRequest{
			Path: key,
			OnChunk: func(_ int64, _ int64, data []byte) {
				totalBytes.Add(int64(len(data)))
			},
			OnComplete: func(err error) {
				defer wg.Done()
				defer func() { <-inFlight }()
				if err != nil {
					failures.Add(1)
					fmt.Printf("get %s: %v\n", key, err)
				}
			},
		})
		if err != nil {
			<-inFlight
			wg.Done()
			failures.Add(1)
			fmt.Printf("submit %s: %v\n", key, err)
		}
	}

	wg.Wait()
	elapsed := time.Since(start)
	reportThroughput("get", count, int(failures.Load()), totalBytes.Load(), elapsed)
	return nil
}
