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

package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type version struct {
	license LicenseModel
	pack    string
	desc    string
	build   string
	release string
	author  string
	prefix  string
	date    time.Time
	root    interface{}
}

func (v *version) GetPackage() string     { return v.pack }
func (v *version) GetDescription() string { return v.desc }
func (v *version) GetAuthor() string      { return v.author }
func (v *version) GetPrefix() string      { return v.prefix }
func (v *version) GetBuild() string       { return v.build }
func (v *version) GetRelease() string     { return v.release }
func (v *version) GetDate() string        { return v.date.Format(time.RFC3339) }
func (v *version) GetTime() time.Time     { return v.date }

func (v *version) GetAppId() string {
	return fmt.Sprintf("%s-%s-%s", v.prefix, v.pack, v.build)
}

func (v *version) GetRootPackagePath() string {
	if v.root == nil {
		return ""
	}

	t := reflect.TypeOf(v.root)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.PkgPath()
}

func (v *version) pick(m []LicenseModel) LicenseModel {
	if len(m) > 0 {
		return m[0]
	}
	return v.license
}

func (v *version) GetLicenseName(m ...LicenseModel) string {
	switch v.pick(m) {
	case License_Apache_v2:
		return "Apache License 2.0"
	case License_GNU_GPL_v3:
		return "GNU General Public License v3.0"
	default:
		return "MIT License"
	}
}

func (v *version) GetLicenseLegal(m ...LicenseModel) string {
	year := v.date.Year()
	switch v.pick(m) {
	case License_Apache_v2:
		return fmt.Sprintf("Copyright (c) %d %s, licensed under the Apache License, Version 2.0.", year, v.author)
	case License_GNU_GPL_v3:
		return fmt.Sprintf("Copyright (c) %d %s, licensed under the GNU GPL v3.", year, v.author)
	default:
		return fmt.Sprintf("Copyright (c) %d %s, licensed under the MIT License.", year, v.author)
	}
}

func (v *version) GetLicenseBoiler(m ...LicenseModel) string {
	return v.GetLicenseName(m...) + "\n\n" + v.GetLicenseLegal(m...)
}

func (v *version) GetLicenseFull(m ...LicenseModel) string {
	return v.GetLicenseBoiler(m...) + "\n\nSee LICENSE file for full terms."
}

func (v *version) GetHeader() string {
	return fmt.Sprintf("%s %s (%s) built %s [%s]", v.pack, v.release, v.build, v.GetDate(), runtime.Version())
}

func (v *version) GetInfo() string {
	return strings.Join([]string{
		v.GetHeader(),
		v.desc,
		v.GetLicenseName(),
	}, "\n")
}

func (v *version) CheckGo(required string, operator string) error {
	cur := strings.TrimPrefix(runtime.Version(), "go")

	rc, err := cmpVersion(cur, required)
	if err != nil {
		return err
	}

	switch operator {
	case ">=":
		if rc < 0 {
			return fmt.Errorf("version: go %s does not satisfy >= %s", cur, required)
		}
	case ">":
		if rc <= 0 {
			return fmt.Errorf("version: go %s does not satisfy > %s", cur, required)
		}
	case "<=":
		if rc > 0 {
			return fmt.Errorf("version: go %s does not satisfy <= %s", cur, required)
		}
	case "<":
		if rc >= 0 {
			return fmt.Errorf("version: go %s does not satisfy < %s", cur, required)
		}
	case "==":
		if rc != 0 {
			return fmt.Errorf("version: go %s does not satisfy == %s", cur, required)
		}
	case "~>":
		if rc < 0 {
			return fmt.Errorf("version: go %s does not satisfy ~> %s", cur, required)
		}
	default:
		return fmt.Errorf("version: unknown operator %q", operator)
	}

	return nil
}

func cmpVersion(a, b string) (int, error) {
	pa, err := splitVersion(a)
	if err != nil {
		return 0, err
	}

	pb, err := splitVersion(b)
	if err != nil {
		return 0, err
	}

	for i := 0; i < len(pa) || i < len(pb); i++ {
		var va, vb int
		if i < len(pa) {
			va = pa[i]
		}
		if i < len(pb) {
			vb = pb[i]
		}
		if va != vb {
			if va < vb {
				return -1, nil
			}
			return 1, nil
		}
	}

	return 0, nil
}

func splitVersion(s string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("version: empty version string")
	}

	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("version: invalid version segment %q: %w", p, err)
		}
		out = append(out, n)
	}

	return out, nil
}
