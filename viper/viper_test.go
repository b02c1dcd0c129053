/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package viper_test

import (
	"context"
	"time"

	liblog "github.com/nabbar/s3transfer/logger"
	libvpr "github.com/nabbar/s3transfer/viper"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Viper", func() {
	var (
		ctx context.Context
		v   libvpr.Viper
	)

	BeforeEach(func() {
		ctx = context.Background()
		v = libvpr.New(ctx, nil)
	})

	It("builds a usable instance with a nil logger", func() {
		Expect(v).ToNot(BeNil())
		Expect(v.Viper()).ToNot(BeNil())
	})

	It("round-trips scalar and slice values through the underlying viper", func() {
		v.Viper().Set("part.size", int64(8*1024*1024))
		v.Viper().Set("part.window", 8)
		v.Viper().Set("region", "us-east-1")
		v.Viper().Set("sweep", "30s")
		v.Viper().Set("vips", []string{"10.0.0.1", "10.0.0.2"})

		Expect(v.GetInt64("part.size")).To(Equal(int64(8 * 1024 * 1024)))
		Expect(v.GetInt("part.window")).To(Equal(8))
		Expect(v.GetString("region")).To(Equal("us-east-1"))
		Expect(v.GetDuration("sweep")).To(Equal(30 * time.Second))
		Expect(v.GetStringSlice("vips")).To(Equal([]string{"10.0.0.1", "10.0.0.2"}))
	})

	It("unmarshals into a struct", func() {
		type benchConfig struct {
			Region string `mapstructure:"region"`
			Window int    `mapstructure:"window"`
		}

		v.Viper().Set("region", "eu-west-1")
		v.Viper().Set("window", 12)

		var cfg benchConfig
		Expect(v.Unmarshal(&cfg)).To(Succeed())
		Expect(cfg.Region).To(Equal("eu-west-1"))
		Expect(cfg.Window).To(Equal(12))
	})

	It("unmarshals a single key", func() {
		v.Viper().Set("retry", map[string]interface{}{"max": 5})

		type retryConfig struct {
			Max int `mapstructure:"max"`
		}

		var cfg retryConfig
		Expect(v.UnmarshalKey("retry", &cfg)).To(Succeed())
		Expect(cfg.Max).To(Equal(5))
	})

	It("requires a home base name before resolving an implicit config path", func() {
		Expect(v.SetConfigFile("")).To(HaveOccurred())

		v.SetHomeBaseName("s3bench")
		Expect(v.SetConfigFile("")).ToNot(HaveOccurred())
	})

	It("clears settings on Unset with no keys", func() {
		v.Viper().Set("region", "us-east-1")
		Expect(v.Unset()).To(Succeed())
		Expect(v.GetString("region")).To(BeEmpty())
	})

	It("drops only the named key on Unset", func() {
		v.Viper().Set("region", "us-east-1")
		v.Viper().Set("window", 8)

		Expect(v.Unset("region")).To(Succeed())
		Expect(v.GetString("region")).To(BeEmpty())
		Expect(v.GetInt("window")).To(Equal(8))
	})

	It("falls back to logger.New when no FuncLog is given", func() {
		v := libvpr.New(ctx, nil)
		Expect(v).ToNot(BeNil())
	})

	It("accepts a real FuncLog", func() {
		log := func() liblog.Logger { return liblog.New(ctx) }
		v := libvpr.New(ctx, log)
		Expect(v).ToNot(BeNil())
	})
})
