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
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	spfcbr "github.com/spf13/cobra"
)

func newPutCommand(cfgPath *string) *spfcbr.Command {
	var (
		count       int
		concurrency int
		objectSize  int64
		prefix      string
	)

	cmd := &spfcbr.Command{
		Use:     "put",
		Short:   "upload objects concurrently and report throughput",
		Example: "s3bench put --config s3bench.yaml --count 50 --concurrency 8 --object-size 67108864",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return runPut(*cfgPath, count, concurrency, objectSize, prefix)
		},
	}

	cmd.Flags().IntVar(&count, "count", 20, "number of objects to upload")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "objects in flight at once")
	cmd.Flags().Int64Var(&objectSize, "object-size", 16<<20, "size in bytes of each generated object")
	cmd.Flags().StringVar(&prefix, "prefix", "s3bench", "key prefix for generated objects")

	return cmd
}

func runPut(cfgPath string, count, concurrency int, objectSize int64, prefix string) error {
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
		inFlight   = make(chan struct{}, concurrency)
		start      = time.Now()
		totalBytes atomic.Int64
	)

	for i := 0; i < count; i++ {
		inFlight <- struct{}{}
		wg.Add(1)

		key := fmt.Sprintf("/%s/obj-%06d", prefix, i)
		size := objectSize
		seed := rand.New(rand.NewSource(int64(i) + 1))

		err := cli.Put(newPutRequest(key, size, seed, func(err error) {
			defer wg.Done()
			defer func() { <-inFlight }()
			if err != nil {
				failures.Add(1)
				fmt.Printf("put %s: %v\n", key, err)
				return
			}
			totalBytes.Add(size)
		}))
		if err != nil {
			<-inFlight
			wg.Done()
			failures.Add(1)
			fmt.Printf("submit %s: %v\n", key, err)
		}
	}

	wg.Wait()
	elapsed := time.Since(start)
	reportThroughput("put", count, int(failures.Load()), totalBytes.Load(), elapsed)
	return nil
}
