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

package ldap

import (
	cfgtps "github.com/nabbar/s3transfer/config/types"
	libctx "github.com/nabbar/s3transfer/context"
	lbldap "github.com/nabbar/s3transfer/ldap"
	liblog "github.com/nabbar/s3transfer/logger"
	libver "github.com/nabbar/s3transfer/version"
	libvpr "github.com/nabbar/s3transfer/viper"
)

const (
	ComponentType = "LDAP"

	keyCptKey = iota + 1
	keyCptDependencies
	keyFctViper
	keyFctGetCpt
	keyCptVersion
	keyCptLogger
	keyFctStaBef
	keyFctStaAft
	keyFctRelBef
	keyFctRelAft
	keyFctMonitorPool
)

func (o *componentLDAP) Type() string {
	return ComponentType
}

func (o *componentLDAP) Init(key string, ctx libctx.FuncContext, get cfgtps.FuncCptGet, vpr libvpr.FuncViper, vrs libver.Version, log liblog.FuncLog) {
	o.x.Store(keyCptKey, key)
	o.x.Store(keyFctGetCpt, get)
	o.x.Store(keyFctViper, vpr)
	o.x.Store(keyCptVersion, vrs)
	o.x.Store(keyCptLogger, log)
}

func (o *componentLDAP) RegisterFuncStart(before, after cfgtps.FuncCptEvent) {
	o.x.Store(keyFctStaBef, before)
	o.x.Store(keyFctStaAft, after)
}

func (o *componentLDAP) RegisterFuncReload(before, after cfgtps.FuncCptEvent) {
	o.x.Store(keyFctRelBef, before)
	o.x.Store(keyFctRelAft, after)
}

func (o *componentLDAP) IsStarted() bool {
	if o == nil {
		return false
	} else if i := o.l.Load(); i == nil {
		return false
	} else if v, k := i.(*lbldap.HelperLDAP); !k {
		return false
	} else if v.Check() != nil {
		return false
	} else {
		return true
	}
}

func (o *componentLDAP) IsRunning() bool {
	return o.IsStarted()
}

func (o *componentLDAP) Start() error {
	return o._run()
}

func (o *componentLDAP) Reload() error {
	return o._run()
}

func (o *componentLDAP) Stop() {
	if i := o.l.Swap(&lbldap.HelperLDAP{}); i == nil {
		return
	} else if v, k := i.(*lbldap.HelperLDAP); !k {
		return
	} else {
		v.Close()
	}
}

func (o *componentLDAP) Dependencies() []string {
	var def = make([]string, 0)

	if o == nil {
		return def
	} else if i, l := o.x.Load(keyCptDependencies); !l {
		return def
	} else if v, k := i.([]string); !k {
		return def
	} else if len(v) > 0 {
		return v
	} else {
		return def
	}
}

func (o *componentLDAP) SetDependencies(d []string) error {
	if o.x == nil {
		return ErrorComponentNotInitialized.Error(nil)
	} else {
		if d == nil {
			d = make([]string, 0)
		}

		o.x.Store(keyCptDependencies, d)
		return nil
	}
}

func (o *componentLDAP) getLogger() liblog.Logger {
	if i, l := o.x.Load(keyCptLogger); !l {
		return nil
	} else if v, k := i.(liblog.FuncLog); !k {
		return nil
	} else {
		return v()
	}
}
