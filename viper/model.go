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

package viper

import (
	"context"
	"io"
	"os"
	"time"

	liblog "github.com/nabbar/s3transfer/logger"
	loglvl "github.com/nabbar/s3transfer/logger/level"
	"github.com/mitchellh/mapstructure"
	homedir "github.com/mitchellh/go-homedir"
	spfvpr "github.com/spf13/viper"
)

type viper struct {
	ctx context.Context
	log liblog.FuncLog

	vpr *spfvpr.Viper

	homeBase string
	envPfx   string
	defCfg   func() io.Reader
	hooks    []mapstructure.DecodeHookFunc
}

func (v *viper) Viper() *spfvpr.Viper {
	return v.vpr
}

func (v *viper) SetHomeBaseName(name string) {
	v.homeBase = name
}

func (v *viper) SetEnvVarsPrefix(prefix string) {
	v.envPfx = prefix
	if prefix != "" {
		v.vpr.SetEnvPrefix(prefix)
		v.vpr.AutomaticEnv()
	}
}

func (v *viper) SetDefaultConfig(fct func() io.Reader) {
	v.defCfg = fct
}

// SetConfigFile points viper at an explicit path. An empty path falls back
// to searching the working directory, then $HOME, for a dotfile named
// after SetHomeBaseName (".<name>.yaml" and friends), the way cobra's own
// --config flag resolution does.
func (v *viper) SetConfigFile(path string) error {
	if path != "" {
		v.vpr.SetConfigFile(path)
		return nil
	}

	if v.homeBase == "" {
		return ErrorParamMissing.Error(nil)
	}

	if wd, err := os.Getwd(); err == nil {
		v.vpr.AddConfigPath(wd)
	} else {
		return ErrorBasePathNotFound.Error(err)
	}

	if home, err := homedir.Dir(); err == nil {
		v.vpr.AddConfigPath(home)
	} else {
		return ErrorHomePathNotFound.Error(err)
	}

	v.vpr.SetConfigName("." + v.homeBase)
	return nil
}

// Config reads the config file (if any was resolved by SetConfigFile), or
// falls back to the default config reader, logging the outcome at lvlKO/lvlOK.
func (v *viper) Config(lvlKO, lvlOK loglvl.Level) error {
	l := v.log()

	if err := v.vpr.ReadInConfig(); err != nil {
		if _, ok := err.(spfvpr.ConfigFileNotFoundError); !ok {
			l.CheckError(lvlKO, loglvl.NilLevel, "reading config file", err)
			return ErrorConfigRead.Error(err)
		}

		if v.defCfg != nil {
			if e := v.vpr.ReadConfig(v.defCfg()); e != nil {
				l.CheckError(lvlKO, loglvl.NilLevel, "reading default config", e)
				return ErrorConfigReadDefault.Error(e)
			}
		}
	}

	l.CheckError(loglvl.NilLevel, lvlOK, "config loaded: "+v.vpr.ConfigFileUsed())
	return nil
}

func (v *viper) Unset(keys ...string) error {
	if len(keys) == 0 {
		v.vpr = spfvpr.New()
		return nil
	}

	all := v.vpr.AllSettings()
	for _, k := range keys {
		delete(all, k)
	}

	fresh := spfvpr.New()
	for k, val := range all {
		fresh.Set(k, val)
	}
	v.vpr = fresh
	return nil
}

func (v *viper) GetBool(key string) bool                          { return v.vpr.GetBool(key) }
func (v *viper) GetString(key string) string                      { return v.vpr.GetString(key) }
func (v *viper) GetInt(key string) int                            { return v.vpr.GetInt(key) }
func (v *viper) GetInt32(key string) int32                        { return v.vpr.GetInt32(key) }
func (v *viper) GetInt64(key string) int64                        { return v.vpr.GetInt64(key) }
func (v *viper) GetUint(key string) uint                           { return v.vpr.GetUint(key) }
func (v *viper) GetUint16(key string) uint16                      { return v.vpr.GetUint16(key) }
func (v *viper) GetUint32(key string) uint32                      { return v.vpr.GetUint32(key) }
func (v *viper) GetUint64(key string) uint64                      { return v.vpr.GetUint64(key) }
func (v *viper) GetFloat64(key string) float64                    { return v.vpr.GetFloat64(key) }
func (v *viper) GetDuration(key string) time.Duration              { return v.vpr.GetDuration(key) }
func (v *viper) GetTime(key string) time.Time                     { return v.vpr.GetTime(key) }
func (v *viper) GetIntSlice(key string) []int                     { return v.vpr.GetIntSlice(key) }
func (v *viper) GetStringSlice(key string) []string                { return v.vpr.GetStringSlice(key) }
func (v *viper) GetStringMap(key string) map[string]interface{}   { return v.vpr.GetStringMap(key) }
func (v *viper) GetStringMapString(key string) map[string]string  { return v.vpr.GetStringMapString(key) }
func (v *viper) GetStringMapStringSlice(key string) map[string][]string {
	return v.vpr.GetStringMapStringSlice(key)
}

func (v *viper) HookRegister(hook mapstructure.DecodeHookFunc) {
	v.hooks = append(v.hooks, hook)
}

func (v *viper) HookReset() {
	v.hooks = nil
}

func (v *viper) decodeOpt() spfvpr.DecoderConfigOption {
	return func(c *mapstructure.DecoderConfig) {
		if len(v.hooks) > 0 {
			c.DecodeHook = mapstructure.ComposeDecodeHookFunc(v.hooks...)
		}
	}
}

func (v *viper) Unmarshal(out interface{}) error {
	return v.vpr.Unmarshal(out, v.decodeOpt())
}

func (v *viper) UnmarshalKey(key string, out interface{}) error {
	return v.vpr.UnmarshalKey(key, out, v.decodeOpt())
}

func (v *viper) UnmarshalExact(out interface{}) error {
	return v.vpr.UnmarshalExact(out, v.decodeOpt())
}
