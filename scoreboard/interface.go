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

// Scoreboard is the contract of spec.md §4.A: a fixed-size shared census of
// worker slots, readable by all workers and the supervisor, writable under
// the single-writer-per-slot rule.
type Scoreboard interface {
	// Len returns HARD_SERVER_LIMIT, the fixed slot count.
	Len() int

	// UpdateChildStatus atomically overwrites one slot's status (and,
	// when non-nil, merges request-display counters) and returns the
	// prior status. The supervisor uses this to mark DEAD; workers use
	// it for every phase transition (spec.md §4.A).
	UpdateChildStatus(slot int, status Status, info *RequestInfo) (Status, error)

	// Slot returns a snapshot of one slot.
	Slot(idx int) (WorkerSlot, error)

	// FindChildByPid performs the linear scan over [0, MaxDaemonsLimit)
	// spec.md §4.A describes.
	FindChildByPid(pid int32) (slot int, ok bool)

	// ExistsScoreboardImage is the predicate late-initialized logging
	// paths use before the scoreboard is attached.
	ExistsScoreboardImage() bool

	// MaxDaemonsLimit returns the highest slot index ever used, the
	// supervisor's scan-confinement optimization (spec.md §3).
	MaxDaemonsLimit() int

	// NoteUsed records that idx has been used by a live worker, so
	// MaxDaemonsLimit can grow.
	NoteUsed(idx int)

	// ExitGeneration / SetExitGeneration expose ScoreboardGlobal's single
	// counter, bumped by the supervisor to signal graceful-restart
	// workers to exit after their current connection (spec.md §3).
	ExitGeneration() uint32
	SetExitGeneration(gen uint32)

	// Reset zeroes every slot but preserves ExitGeneration, used across
	// supervisor restarts (spec.md §4.A).
	Reset() error

	// Close releases the backend.
	Close() error
}

// RequestInfo carries the optional per-request display fields spec.md §4.A's
// update_child_status accepts alongside a status transition.
type RequestInfo struct {
	AccessCountDelta uint64
	BytesServedDelta uint64
	ConnBytes        uint64
}

// New wraps a Backend with the Scoreboard census operations.
func New(b Backend) Scoreboard {
	return &board{b: b}
}
