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

// Package scoreboard implements the fixed-size worker census described in
// spec.md §3/§4.A: a shared array of WorkerSlot records, one per worker slot,
// readable by the supervisor and every worker and writable only by the slot's
// current owner (single-writer-per-slot, spec.md invariant I1).
package scoreboard

// Status is a worker slot's lifecycle state, spec.md §3 WorkerSlot.status.
type Status uint8

const (
	StatusDead Status = iota
	StatusStarting
	StatusReady
	StatusBusyRead
	StatusBusyWrite
	StatusBusyKeepAlive
	StatusGraceful
)

func (s Status) String() string {
	switch s {
	case StatusDead:
		return "dead"
	case StatusStarting:
		return "starting"
	case StatusReady:
		return "ready"
	case StatusBusyRead:
		return "busy-read"
	case StatusBusyWrite:
		return "busy-write"
	case StatusBusyKeepAlive:
		return "busy-keepalive"
	case StatusGraceful:
		return "graceful"
	}
	return "unknown"
}

// IsIdle reports whether a worker in this state counts toward idle_count in
// the supervisor's idle-maintenance algorithm (spec.md §4.G).
func (s Status) IsIdle() bool {
	return s == StatusStarting || s == StatusReady
}
