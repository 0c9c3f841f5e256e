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

package acceptmutex

import "sync/atomic"

// nopMutex bypasses serialization entirely, per spec.md §4.B's single
// listener special case. Holding() always reports false so sigplane never
// defers a signal on its account.
type nopMutex struct {
	inh int32
}

func (m *nopMutex) Init() error      { return nil }
func (m *nopMutex) ChildInit() error { return nil }

func (m *nopMutex) Lock() error {
	atomic.StoreInt32(&m.inh, 1)
	return nil
}

func (m *nopMutex) Unlock() error {
	atomic.StoreInt32(&m.inh, 0)
	return nil
}

func (m *nopMutex) Holding() bool { return atomic.LoadInt32(&m.inh) == 1 }
func (m *nopMutex) Close() error  { return nil }
