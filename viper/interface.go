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

// Package viper wraps spf13/viper with the config-file discovery and
// mapstructure decode-hook registration cmd/s3bench needs to load its YAML
// config (region, part size, throughput target, VIP count floor/ceiling)
// the same way cobra discovers its own config.
package viper

import (
	"context"
	"io"
	"time"

	liblog "github.com/nabbar/s3transfer/logger"
	loglvl "github.com/nabbar/s3transfer/logger/level"
	"github.com/mitchellh/mapstructure"
	spfvpr "github.com/spf13/viper"
)

// Viper is the decode/lookup surface cmd/s3bench uses to load its config
// file and bind it into a plain Go struct.
type Viper interface {
	Viper() *spfvpr.Viper

	SetHomeBaseName(name string)
	SetEnvVarsPrefix(prefix string)
	SetDefaultConfig(fct func() io.Reader)
	SetConfigFile(path string) error
	Config(lvlKO, lvlOK loglvl.Level) error

	Unset(keys ...string) error

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetTime(key string) time.Time
	GetIntSlice(key string) []int
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	GetStringMapString(key string) map[string]string
	GetStringMapStringSlice(key string) map[string][]string

	HookRegister(hook mapstructure.DecodeHookFunc)
	HookReset()

	Unmarshal(out interface{}) error
	UnmarshalKey(key string, out interface{}) error
	UnmarshalExact(out interface{}) error
}

// New builds a Viper bound to ctx/log, used only for diagnostic logging
// during Config(). log may be nil, in which case a no-op default is used.
func New(ctx context.Context, log liblog.FuncLog) Viper {
	if log == nil {
		log = func() liblog.Logger {
			return liblog.New(ctx)
		}
	}

	return &viper{
		ctx: ctx,
		log: log,
		vpr: spfvpr.New(),
	}
}
