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

import (
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
)

// flockMutex is the default, portable Mutex implementation: one flock(2)
// advisory lock per process on a shared lock file. The kernel releases the
// lock automatically if the holding process exits without calling Unlock,
// satisfying spec.md §4.B's "holder death" requirement without any explicit
// cleanup handler.
type flockMutex struct {
	path string

	mu  sync.Mutex
	fl  *flock.Flock
	inh int32 // atomic: 1 while this process holds the lock
}

func (m *flockMutex) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fl == nil {
		m.fl = flock.New(m.path)
	}
	return nil
}

func (m *flockMutex) ChildInit() error {
	// Each worker process gets its own *flock.Flock bound to the same
	// path; flock(2) locks are per-open-file-description, so the child
	// must open its own handle rather than reuse the supervisor's fd.
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fl = flock.New(m.path)
	return nil
}

func (m *flockMutex) Lock() error {
	m.mu.Lock()
	fl := m.fl
	m.mu.Unlock()

	if fl == nil {
		return ErrorNotInitialized.Error(nil)
	}

	if err := fl.Lock(); err != nil {
		return ErrorLockFailed.Error(err)
	}

	atomic.StoreInt32(&m.inh, 1)
	return nil
}

func (m *flockMutex) Unlock() error {
	m.mu.Lock()
	fl := m.fl
	m.mu.Unlock()

	if fl == nil {
		return ErrorNotInitialized.Error(nil)
	}

	atomic.StoreInt32(&m.inh, 0)

	if err := fl.Unlock(); err != nil {
		return ErrorUnlockFailed.Error(err)
	}
	return nil
}

func (m *flockMutex) Holding() bool {
	return atomic.LoadInt32(&m.inh) == 1
}

func (m *flockMutex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fl == nil {
		return nil
	}
	return m.fl.Close()
}
