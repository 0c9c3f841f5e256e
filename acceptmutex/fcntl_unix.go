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

//go:build unix

package acceptmutex

import (
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// fcntlMutex is the F_SETLKW-based alternative primitive spec.md §4.B lists
// alongside flock: "Acceptable primitives ... fcntl advisory file locks,
// flock, SysV semaphores with SEM_UNDO, ...". Kept distinct from flockMutex
// because fcntl locks are per-process (not per-open-file-description): a
// second Lock from the same process on the same fd would be a silent no-op,
// so ChildInit re-opens a private fd per worker exactly like flockMutex does.
type fcntlMutex struct {
	path string

	mu  sync.Mutex
	f   *os.File
	inh int32
}

func (m *fcntlMutex) openSelf() error {
	f, err := os.OpenFile(m.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return ErrorLockFileOpen.Error(err)
	}

	m.mu.Lock()
	m.f = f
	m.mu.Unlock()
	return nil
}

func (m *fcntlMutex) Init() error {
	m.mu.Lock()
	already := m.f != nil
	m.mu.Unlock()

	if already {
		return nil
	}
	return m.openSelf()
}

func (m *fcntlMutex) ChildInit() error {
	return m.openSelf()
}

func (m *fcntlMutex) Lock() error {
	m.mu.Lock()
	f := m.f
	m.mu.Unlock()

	if f == nil {
		return ErrorNotInitialized.Error(nil)
	}

	lk := unix.Flock_t{Type: unix.F_WRLCK, Whence: 0, Start: 0, Len: 0}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLKW, &lk); err != nil {
		return ErrorLockFailed.Error(err)
	}

	atomic.StoreInt32(&m.inh, 1)
	return nil
}

func (m *fcntlMutex) Unlock() error {
	m.mu.Lock()
	f := m.f
	m.mu.Unlock()

	if f == nil {
		return ErrorNotInitialized.Error(nil)
	}

	atomic.StoreInt32(&m.inh, 0)

	lk := unix.Flock_t{Type: unix.F_UNLCK, Whence: 0, Start: 0, Len: 0}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLK, &lk); err != nil {
		return ErrorUnlockFailed.Error(err)
	}
	return nil
}

func (m *fcntlMutex) Holding() bool {
	return atomic.LoadInt32(&m.inh) == 1
}

func (m *fcntlMutex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.f == nil {
		return nil
	}
	return m.f.Close()
}
