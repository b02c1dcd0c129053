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

	libaws "github.com/nabbar/s3transfer/aws/configAws"
	libdur "github.com/nabbar/s3transfer/duration"
	libsiz "github.com/nabbar/s3transfer/size"
	libvpr "github.com/nabbar/s3transfer/viper"
)

// benchConfig is the YAML shape viper.Unmarshal decodes the --config file
// into: one endpoint, one throughput-shaped transfer, a VIP floor/ceiling.
type benchConfig struct {
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	Host      string `mapstructure:"host"`

	PartSize   string `mapstructure:"part_size"`
	Window     int    `mapstructure:"window"`
	SweepEvery string `mapstructure:"sweep_every"`

	VIPFloor int `mapstructure:"vip_floor"`
	VIPCeil  int `mapstructure:"vip_count"`

	MetricsListen string `mapstructure:"metrics_listen"`
}

func defaultBenchConfig() benchConfig {
	return benchConfig{
		Region:        "us-east-1",
		PartSize:      "8MB",
		Window:        8,
		SweepEvery:    "30s",
		VIPCeil:       4,
		MetricsListen: ":9090",
	}
}

func loadBenchConfig(path string) (benchConfig, error) {
	cfg := defaultBenchConfig()

	v := libvpr.New(nil, nil)
	v.SetHomeBaseName("s3bench")
	if err := v.SetConfigFile(path); err != nil {
		return cfg, err
	}

	v.Viper().SetDefault("region", cfg.Region)
	v.Viper().SetDefault("part_size", cfg.PartSize)
	v.Viper().SetDefault("window", cfg.Window)
	v.Viper().SetDefault("sweep_every", cfg.SweepEvery)
	v.Viper().SetDefault("vip_count", cfg.VIPCeil)
	v.Viper().SetDefault("metrics_listen", cfg.MetricsListen)

	if err := v.Viper().ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config %q: %w", path, err)
	}

	return cfg, nil
}

func (c benchConfig) partSize() (libsiz.Size, error) {
	return libsiz.Parse(c.PartSize)
}

func (c benchConfig) sweepEvery() (libdur.Duration, error) {
	return libdur.Parse(c.SweepEvery)
}

func (c benchConfig) awsConfig() libaws.Config {
	return libaws.NewConfig(c.Bucket, c.AccessKey, c.SecretKey, c.Region)
}
