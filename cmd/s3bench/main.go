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

// Command s3bench drives sustained concurrent GET/PUT load against one
// S3-compatible endpoint through the client package, reporting throughput
// and exposing a prometheus /metrics endpoint for external scraping.
package main

import (
	"fmt"
	"os"

	libcbr "github.com/nabbar/s3transfer/cobra"
	libver "github.com/nabbar/s3transfer/version"
	spfcbr "github.com/spf13/cobra"
)

var (
	buildRelease = "dev"
	buildHash    = "none"
	buildDate    = ""
)

func main() {
	vers := libver.NewVersion(
		libver.License_MIT,
		"s3bench",
		"concurrent S3 GET/PUT benchmark driver",
		buildDate,
		buildHash,
		buildRelease,
		"nabbar",
		"s3bench",
		struct{}{},
		0,
	)

	app := libcbr.New()
	app.SetVersion(vers)
	app.Init()

	var cfgPath string
	if err := app.SetFlagConfig(true, &cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var verbose int
	app.SetFlagVerbose(true, &verbose)

	app.AddCommand(
		newGetCommand(&cfgPath),
		newPutCommand(&cfgPath),
	)

	root := app.Cobra()
	root.AddCommand(&spfcbr.Command{
		Use:   "version",
		Short: "print version information",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			fmt.Println(vers.GetInfo())
			return nil
		},
	})

	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
