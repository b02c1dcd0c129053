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

// Package version builds the build-time identity string cobra prints in its
// header and --version output: package name, release tag, build hash, author
// and license, resolved once at NewVersion and read many times afterward.
package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// License identifies the license a Version is published under.
type License uint8

const (
	License_MIT License = iota
	License_GNU_GPL_v3
	License_Apache_v2
)

func (l License) name() string {
	switch l {
	case License_GNU_GPL_v3:
		return "GNU GENERAL PUBLIC LICENSE v3"
	case License_Apache_v2:
		return "Apache License v2"
	default:
		return "MIT License"
	}
}

func (l License) boiler(year string) string {
	return fmt.Sprintf("%s License\nCopyright (c) %s", l.name(), year)
}

// Version exposes the build/release identity cobra's header, --version flag,
// and config-file boilerplate read from.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetHeader() string
	GetInfo() string
	GetRootPackagePath() string
	GetLicenseName() string
	GetLicenseBoiler(additional ...License) string
}

type version struct {
	lic     License
	pkg     string
	desc    string
	date    time.Time
	build   string
	release string
	author  string
	prefix  string
	path    string
}

// NewVersion builds a Version. date is parsed as RFC3339 and falls back to
// time.Now() when it doesn't parse. ref is any value from the calling
// package, used purely to resolve that package's import path via reflection;
// numSubPackage trims that many trailing path segments off the result (0 =
// the calling package itself, 1 = its parent, ...).
func NewVersion(lic License, pkg string, desc string, date string, build string, release string, author string, prefix string, ref interface{}, numSubPackage int) Version {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t = time.Now()
	}

	path := reflect.TypeOf(ref).PkgPath()
	for i := 0; i < numSubPackage; i++ {
		if j := strings.LastIndex(path, "/"); j != -1 {
			path = path[:j]
		}
	}

	if pkg == "" || pkg == "noname" {
		if j := strings.LastIndex(path, "/"); j != -1 {
			pkg = path[j+1:]
		} else {
			pkg = path
		}
	}

	return &version{
		lic:     lic,
		pkg:     pkg,
		desc:    desc,
		date:    t,
		build:   build,
		release: release,
		author:  author,
		prefix:  prefix,
		path:    path,
	}
}

func (v *version) GetPackage() string     { return v.pkg }
func (v *version) GetDescription() string { return v.desc }
func (v *version) GetBuild() string       { return v.build }
func (v *version) GetRelease() string     { return v.release }
func (v *version) GetAuthor() string      { return fmt.Sprintf("%s (source: %s)", v.author, v.path) }
func (v *version) GetPrefix() string      { return strings.ToUpper(v.prefix) }
func (v *version) GetDate() string        { return v.date.Format(time.RFC1123) }
func (v *version) GetTime() time.Time     { return v.date }
func (v *version) GetRootPackagePath() string { return v.path }
func (v *version) GetLicenseName() string     { return v.lic.name() }

func (v *version) GetAppId() string {
	return fmt.Sprintf("%s (Runtime: %s/%s)", v.release, runtime.GOOS, runtime.GOARCH)
}

func (v *version) GetHeader() string {
	return fmt.Sprintf("%s %s (build %s)", v.pkg, v.release, v.build)
}

func (v *version) GetInfo() string {
	return fmt.Sprintf("Release: %s\nBuild: %s\nDate: %s\nAuthor: %s\nLicense: %s", v.release, v.build, v.GetDate(), v.GetAuthor(), v.GetLicenseName())
}

func (v *version) GetLicenseBoiler(additional ...License) string {
	year := fmt.Sprintf("%d", v.date.Year())
	b := v.lic.boiler(year)
	for _, l := range additional {
		b += "\n\n" + l.boiler(year)
	}
	return b
}
