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

// Mutex is the contract of spec.md §4.B: lock()/unlock() such that, across
// all worker processes, at most one is inside accept on the shared listener
// set at a time, robust to holder death.
type Mutex interface {
	// Init is called by the supervisor at startup and on every restart;
	// idempotent across restarts.
	Init() error

	// ChildInit is called by each worker after spawn, before its first
	// Lock call.
	ChildInit() error

	// Lock blocks until this process holds the mutex. While held, the
	// caller must route SIGHUP/SIGTERM/SIGUSR1 handling through the
	// accompanying Holding() flag rather than acting immediately — the
	// Go re-architecture of spec.md's "block signals that would cause
	// the worker to die while holding the mutex" (no signal masking
	// primitive is portable across goroutines, so sigplane polls
	// Holding() instead, per Design Notes §9's self-pipe translation).
	Lock() error

	// Unlock releases the mutex.
	Unlock() error

	// Holding reports whether this process currently holds the mutex,
	// for sigplane's deferred-signal bookkeeping.
	Holding() bool

	// Close releases any held resources (lock file handle). Unlocking
	// first is the caller's responsibility.
	Close() error
}

// Kind selects the accept-mutex primitive at construction time, per spec.md
// §4.B "Selection is a compile-time choice".
type Kind uint8

const (
	// KindFlock uses flock(2) advisory locks via gofrs/flock: portable,
	// releases automatically if the holder exits (spec.md's "holder
	// death" requirement is satisfied by the kernel).
	KindFlock Kind = iota

	// KindFcntl uses fcntl(2) F_SETLKW advisory record locks via
	// golang.org/x/sys/unix, the historical default on SysV-derived
	// platforms that lack a working flock(2).
	KindFcntl

	// KindNone bypasses serialization entirely: only valid when exactly
	// one listener is in use and the kernel guarantees safe concurrent
	// accept on it (spec.md §4.B "Special case").
	KindNone
)

// New constructs a Mutex of the given kind backed by a lock file at path.
// The lock file is created with mode 0600; unlike the teacher's TLS/cert
// helpers this file is never unlinked after open (unlike the threaded
// variant's "start mutex" named event, accept-mutex workers are unrelated
// processes and must all `open` the same path to flock the same inode).
func New(kind Kind, path string) Mutex {
	switch kind {
	case KindNone:
		return &nopMutex{}
	case KindFcntl:
		return &fcntlMutex{path: path}
	default:
		return &flockMutex{path: path}
	}
}
