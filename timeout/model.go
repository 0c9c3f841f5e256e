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

package timeout

import (
	"sync"
	"time"
)

// Kind names what a deadline is for, spec.md §4.D's timeout_name.
type Kind uint8

const (
	KindHard Kind = iota
	KindSoft
	KindKeepAlive
)

func (k Kind) String() string {
	switch k {
	case KindHard:
		return "hard"
	case KindSoft:
		return "soft"
	case KindKeepAlive:
		return "keepalive"
	}
	return "unknown"
}

// AlarmFunc is spec.md §4.D's alarm_fn: invoked when a deadline fires while
// not inside a blocked (allocator-critical) section.
type AlarmFunc func(name string, kind Kind)

// Plane is the per-worker timeout/alarm state of spec.md §4.D: current_conn
// is left to the caller (the worker loop already knows its own connection);
// Plane owns timeout_req/timeout_name/alarm_fn/alarms_blocked/alarm_pending/
// exit_after_unblock. jmpbuffer has no equivalent — ExitRequested()/Fired()
// are polled instead, per Design Notes §9.
type Plane struct {
	mu sync.Mutex

	name    string
	kind    Kind
	fn      AlarmFunc
	timer   *time.Timer
	armedAt time.Time
	dur     time.Duration
	active  bool

	blocked          int
	pending          bool
	exitAfterUnblock bool
	fired            bool
}

// New returns an idle Plane; a single outstanding deadline at a time per
// worker, as spec.md §4.D "Cancellation semantics" requires.
func New() *Plane {
	return &Plane{}
}

func (p *Plane) arm(name string, kind Kind, d time.Duration, fn AlarmFunc) {
	if p.timer != nil {
		p.timer.Stop()
	}

	p.name = name
	p.kind = kind
	p.fn = fn
	p.dur = d
	p.armedAt = time.Now()
	p.active = true
	p.fired = false

	p.timer = time.AfterFunc(d, p.onFire)
}

// HardTimeout installs the deadline callback and arms an alarm for the
// request/connection's hard timeout (spec.md §4.D).
func (p *Plane) HardTimeout(name string, d time.Duration, fn AlarmFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.arm(name, KindHard, d, fn)
}

// SoftTimeout is the non-fatal counterpart used while a connection may still
// have useful partial work to flush.
func (p *Plane) SoftTimeout(name string, d time.Duration, fn AlarmFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.arm(name, KindSoft, d, fn)
}

// KeepAliveTimeout arms the between-requests keep-alive deadline.
func (p *Plane) KeepAliveTimeout(name string, d time.Duration, fn AlarmFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.arm(name, KindKeepAlive, d, fn)
}

// ResetTimeout re-arms with the original interval, but only if not already
// expired (spec.md §4.D).
func (p *Plane) ResetTimeout() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active || p.fired {
		return ErrorNoActiveTimeout.Error(nil)
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	p.armedAt = time.Now()
	p.timer = time.AfterFunc(p.dur, p.onFire)
	return nil
}

// KillTimeout disarms the current deadline.
func (p *Plane) KillTimeout() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.active = false
	p.pending = false
}

// onFire is spec.md §4.D's "On alarm:" logic.
func (p *Plane) onFire() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fired = true

	if p.blocked > 0 {
		p.pending = true
		return
	}

	if p.exitAfterUnblock {
		return
	}

	if p.fn != nil {
		name, kind, fn := p.name, p.kind, p.fn
		p.mu.Unlock()
		fn(name, kind)
		p.mu.Lock()
	}
}

// BlockAlarms nests an allocator-critical-section depth counter: the only
// memory-safe way to call allocator functions from handler code (spec.md
// §4.D).
func (p *Plane) BlockAlarms() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocked++
}

// UnblockAlarms decrements the depth counter. When the outermost call runs
// and exit_after_unblock is set, it returns true so the worker loop can exit
// cleanly; if alarm_pending was set, the deadline callback fires as if it
// had fired now.
func (p *Plane) UnblockAlarms() (exit bool, err error) {
	p.mu.Lock()

	if p.blocked <= 0 {
		p.mu.Unlock()
		return false, ErrorNegativeBlockDepth.Error(nil)
	}
	p.blocked--

	if p.blocked > 0 {
		p.mu.Unlock()
		return false, nil
	}

	if p.exitAfterUnblock {
		p.mu.Unlock()
		return true, nil
	}

	pending := p.pending
	p.pending = false
	name, kind, fn := p.name, p.kind, p.fn
	p.mu.Unlock()

	if pending && fn != nil {
		fn(name, kind)
	}

	return false, nil
}

// RequestExitAfterUnblock sets exit_after_unblock: sigplane's worker-side
// handler calls this when a just_die signal arrives while blocked (spec.md
// §4.H).
func (p *Plane) RequestExitAfterUnblock() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exitAfterUnblock = true
}

// ExitAfterUnblockRequested reports the exit_after_unblock flag.
func (p *Plane) ExitAfterUnblockRequested() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitAfterUnblock
}

// Blocked reports the current allocator-critical-section depth.
func (p *Plane) Blocked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocked
}
