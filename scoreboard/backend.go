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

package scoreboard

import "sync"

// Backend is the storage contract spec.md §4.A lists four interchangeable
// implementations for (anonymous shared memory, SysV shared memory,
// file-backed, heap-only). A Backend stores HARD_SERVER_LIMIT fixed-size
// slot records plus the ScoreboardGlobal header and must let every worker
// process and the supervisor read/write it from their own address space.
type Backend interface {
	// Len returns the number of slots the backend was sized for.
	Len() int

	// ReadSlot returns the decoded slot at idx.
	ReadSlot(idx int) (WorkerSlot, error)

	// WriteSlot overwrites the slot at idx. Per spec.md's single-writer
	// invariant, callers must ensure only the owning worker (or the
	// supervisor, marking DEAD) calls this for a given idx.
	WriteSlot(idx int, slot WorkerSlot) error

	// ExitGeneration returns the ScoreboardGlobal.exit_generation counter.
	ExitGeneration() uint32

	// BumpExitGeneration atomically sets exit_generation to the supplied
	// value, used by the supervisor to signal graceful-restart (spec.md §4.H).
	SetExitGeneration(gen uint32)

	// Reset zeroes every slot but preserves exit_generation, per spec.md
	// §4.A "All backends must tolerate supervisor restarts".
	Reset() error

	// Close releases backend resources (file handles, shared-memory
	// segments). Safe to call once per process.
	Close() error
}

// heapBackend is the Backend used by the threaded variant (§4.I, a single
// address space) and by tests: a plain Go slice guarded by a mutex, exactly
// spec.md §4.A(4) "a single allocation in one address space".
type heapBackend struct {
	mu   sync.Mutex
	slot []WorkerSlot
	gen  uint32
}

// NewHeapBackend allocates an in-process scoreboard of n slots.
func NewHeapBackend(n int) Backend {
	return &heapBackend{slot: make([]WorkerSlot, n)}
}

func (h *heapBackend) Len() int { return len(h.slot) }

func (h *heapBackend) ReadSlot(idx int) (WorkerSlot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if idx < 0 || idx >= len(h.slot) {
		return WorkerSlot{}, ErrorSlotOutOfRange.Error(nil)
	}
	return h.slot[idx], nil
}

func (h *heapBackend) WriteSlot(idx int, slot WorkerSlot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if idx < 0 || idx >= len(h.slot) {
		return ErrorSlotOutOfRange.Error(nil)
	}
	h.slot[idx] = slot
	return nil
}

func (h *heapBackend) ExitGeneration() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen
}

func (h *heapBackend) SetExitGeneration(gen uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen = gen
}

func (h *heapBackend) Reset() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.slot {
		h.slot[i] = WorkerSlot{}
	}
	return nil
}

func (h *heapBackend) Close() error { return nil }
