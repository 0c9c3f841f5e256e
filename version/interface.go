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

// Package version exposes build/version metadata for the preforkd binary:
// release tag, build hash, build date, license text, and a minimal Go
// toolchain version check used at startup.
package version

import "time"

// LicenseModel identifies which license boilerplate GetLicense* renders.
type LicenseModel uint8

const (
	License_MIT LicenseModel = iota
	License_Apache_v2
	License_GNU_GPL_v3
)

// Version reports build provenance and exposes license/version helpers
// consumed by the CLI (-v, -V) and by config.Component.DefaultConfig headers.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetAuthor() string
	GetPrefix() string
	GetBuild() string
	GetRelease() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetRootPackagePath() string

	GetLicenseName(m ...LicenseModel) string
	GetLicenseLegal(m ...LicenseModel) string
	GetLicenseBoiler(m ...LicenseModel) string
	GetLicenseFull(m ...LicenseModel) string

	GetHeader() string
	GetInfo() string

	// CheckGo compares the running Go runtime version against required
	// using operator one of >=, >, <=, <, ==, ~>. Returns an error when
	// the constraint is not satisfied or operator/required is malformed.
	CheckGo(required string, operator string) error
}

// New builds a Version from the values a main package typically has
// available at link time via -ldflags, plus an app-identifying struct
// used only to derive the root package import path via reflection.
func New(license LicenseModel, pack, description, date, build, release, author, prefix string, root interface{}) Version {
	return NewVersion(license, pack, description, date, build, release, author, prefix, root, 0)
}

// NewVersion is the full constructor; the trailing int is reserved for
// future use (e.g. a minimum required Go minor version) and is currently
// unused.
func NewVersion(license LicenseModel, pack, description, date, build, release, author, prefix string, root interface{}, _ int) Version {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", date)
	}
	if err != nil {
		t = time.Now()
	}

	return &version{
		license: license,
		pack:    pack,
		desc:    description,
		build:   build,
		release: release,
		author:  author,
		prefix:  prefix,
		date:    t,
		root:    root,
	}
}
