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

package listener

import (
	"net"
	"os"
	"sync"
	"sync/atomic"
)

// Listener is spec.md §3's `{ local_addr, fd, used_flag, next }` record,
// translated to Go: `next` becomes implicit ring position (Design Notes §9
// replaces the intrusive pointer cycle with an owned slice plus cursor), and
// `fd` is the *net.TCPListener itself rather than a raw descriptor, since
// workers inherit it via exec.Cmd.ExtraFiles rather than via fork.
type Listener struct {
	LocalAddr string
	TCP       *net.TCPListener
	used      int32
}

func (l *Listener) markUsed() { atomic.StoreInt32(&l.used, 1) }
func (l *Listener) isUsed() bool { return atomic.LoadInt32(&l.used) == 1 }

// Ring is the cyclic arrangement of listening sockets spec.md §3 describes:
// "Forms a circular intrusive ring at runtime (unlike configuration time
// where it is a linear list)." head_listener becomes an atomic cursor index
// into an owned, fixed-order slice.
type Ring struct {
	mu     sync.RWMutex
	member []*Listener
	cursor int32
}

// New builds an empty ring; Setup populates it.
func New() *Ring {
	return &Ring{}
}

// Len returns the number of listeners currently in the ring.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.member)
}

// Members returns a snapshot copy of the ring's listeners, in ring order.
func (r *Ring) Members() []*Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Listener, len(r.member))
	copy(out, r.member)
	return out
}

// Setup opens (or reuses, from old) one listener per requested address, per
// spec.md §4.C: "if an old listener with the same local_addr exists, reuse
// its fd; otherwise create a new socket with SO_REUSEADDR, SO_KEEPALIVE,
// TCP_NODELAY, optional SO_SNDBUF, and configured listen backlog." old may
// be nil on first start.
func (r *Ring) Setup(addrs []string, opt Options, old *Ring) error {
	next := make([]*Listener, 0, len(addrs))
	claimed := make(map[string]bool, len(addrs))

	var oldByAddr map[string]*Listener
	if old != nil {
		oldByAddr = make(map[string]*Listener)
		for _, l := range old.Members() {
			oldByAddr[l.LocalAddr] = l
		}
	}

	seen := make(map[string]bool, len(addrs))
	for _, addr := range addrs {
		if seen[addr] {
			return ErrorDuplicateAddress.Errorf(addr)
		}
		seen[addr] = true

		if ol, ok := oldByAddr[addr]; ok {
			next = append(next, ol)
			claimed[addr] = true
			continue
		}

		tl, err := listenTCP(addr, opt)
		if err != nil {
			return ErrorListen.Error(err)
		}
		next = append(next, &Listener{LocalAddr: addr, TCP: tl})
	}

	if old != nil {
		old.closeUnclaimed(claimed)
	}

	r.mu.Lock()
	r.member = next
	r.cursor = 0
	r.mu.Unlock()

	return nil
}

// closeUnclaimed closes every member whose LocalAddr was not claimed during
// the new ring's Setup, per spec.md §4.C CloseUnused.
func (r *Ring) closeUnclaimed(claimed map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.member {
		if !claimed[l.LocalAddr] {
			_ = l.TCP.Close()
		}
	}
}

// CloseUnused closes every listener in the ring not marked used since the
// last Setup call — kept as a standalone operation for callers that track
// "used" via markUsed explicitly rather than via an old/new Setup pairing.
func (r *Ring) CloseUnused() {
	r.mu.Lock()
	defer r.mu.Unlock()

	keep := r.member[:0]
	for _, l := range r.member {
		if l.isUsed() {
			keep = append(keep, l)
		} else {
			_ = l.TCP.Close()
		}
	}
	r.member = keep
}

// FindReady walks the ring starting at head_listener and returns the first
// listener present in ready (by LocalAddr), advancing the cursor by one
// regardless of which position matched — spec.md §4.C's starvation-
// avoidance invariant (I3): "on return, advance head_listener by one so the
// next call starts at the next ring position."
func (r *Ring) FindReady(ready map[string]bool) (*Listener, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.member)
	if n == 0 {
		return nil, false
	}

	start := int(r.cursor) % n
	var found *Listener

	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if ready[r.member[idx].LocalAddr] {
			found = r.member[idx]
			break
		}
	}

	r.cursor = int32((start + 1) % n)

	if found == nil {
		return nil, false
	}
	found.markUsed()
	return found, true
}

// Single reports whether the ring has exactly one listener, the condition
// under which spec.md §4.C allows a worker to "skip select entirely and
// call accept directly."
func (r *Ring) Single() (*Listener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.member) != 1 {
		return nil, false
	}
	return r.member[0], true
}

// FromInherited builds a Ring over listeners a worker process inherited as
// open file descriptors from its parent's exec.Cmd.ExtraFiles, spec.md §9's
// Go translation of a forked child sharing its parent's listening sockets:
// there is no fork(2) in Go, so the supervisor passes each *net.TCPListener
// across exec as a *os.File and the child re-wraps it here, paired back up
// with the local_addr it was told about via argv.
func FromInherited(addrs []string, files []*os.File) (*Ring, error) {
	if len(addrs) != len(files) {
		return nil, ErrorInheritedMismatch.Error(nil)
	}

	member := make([]*Listener, 0, len(files))
	for i, f := range files {
		l, err := net.FileListener(f)
		if err != nil {
			return nil, ErrorListen.Error(err)
		}

		tl, ok := l.(*net.TCPListener)
		if !ok {
			_ = l.Close()
			return nil, ErrorInheritedMismatch.Error(nil)
		}

		member = append(member, &Listener{LocalAddr: addrs[i], TCP: tl})
	}

	return &Ring{member: member}, nil
}

// Close closes every listener in the ring.
func (r *Ring) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for _, l := range r.member {
		if err := l.TCP.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.member = nil
	return first
}
