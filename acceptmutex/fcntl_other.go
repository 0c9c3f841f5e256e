/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
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

//go:build !unix

package acceptmutex

// fcntlMutex has no portable equivalent on non-unix platforms (Windows uses
// the threaded variant's start-mutex instead, see spec.md §4.I); fall back
// to the flock-backed primitive, which gofrs/flock implements via
// LockFileEx on Windows.
type fcntlMutex struct {
	path string
	inner *flockMutex
}

func (m *fcntlMutex) ensure() *flockMutex {
	if m.inner == nil {
		m.inner = &flockMutex{path: m.path}
	}
	return m.inner
}

func (m *fcntlMutex) Init() error      { return m.ensure().Init() }
func (m *fcntlMutex) ChildInit() error { return m.ensure().ChildInit() }
func (m *fcntlMutex) Lock() error      { return m.ensure().Lock() }
func (m *fcntlMutex) Unlock() error    { return m.ensure().Unlock() }
func (m *fcntlMutex) Holding() bool    { return m.ensure().Holding() }
func (m *fcntlMutex) Close() error     { return m.ensure().Close() }
