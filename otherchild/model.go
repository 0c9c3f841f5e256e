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

package otherchild

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Event is what probe_writable_fds/reap_other_child reports to the
// registrant (spec.md §4.G).
type Event uint8

const (
	EventUnwritable Event = iota
	EventExited
)

type entry struct {
	pid     int
	file    *os.File
	onEvent func(Event)
}

// Registry is the supervisor's OtherChild bookkeeping: non-worker
// children it piped a log writer to, tracked so a dead pipe or a reaped
// pid can be reported back to whoever registered it.
type Registry struct {
	mu      sync.RWMutex
	entries map[int]*entry
	sem     *semaphore.Weighted
}

// New returns an empty Registry; maxConcurrentProbes bounds how many
// ProbeWritableFDs checks run at once (16 if non-positive).
func New(maxConcurrentProbes int64) *Registry {
	if maxConcurrentProbes <= 0 {
		maxConcurrentProbes = 16
	}
	return &Registry{
		entries: make(map[int]*entry),
		sem:     semaphore.NewWeighted(maxConcurrentProbes),
	}
}

// Register records pid's log-pipe file descriptor and its event callback.
func (r *Registry) Register(pid int, f *os.File, onEvent func(Event)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[pid]; ok {
		return ErrorAlreadyRegistered.Error(nil)
	}

	r.entries[pid] = &entry{pid: pid, file: f, onEvent: onEvent}
	return nil
}

// Unregister removes pid from the registry without signaling an event.
func (r *Registry) Unregister(pid int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[pid]; !ok {
		return ErrorNotRegistered.Error(nil)
	}

	delete(r.entries, pid)
	return nil
}

// Len reports how many children are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ProbeWritableFDs performs spec.md §4.G's probe_writable_fds: a
// non-blocking poll of every registered descriptor, fanned out under the
// registry's semaphore, invoking onEvent(EventUnwritable) for any no
// longer writable.
func (r *Registry) ProbeWritableFDs(ctx context.Context) error {
	r.mu.RLock()
	snapshot := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mu.RUnlock()

	var wg sync.WaitGroup
	for _, e := range snapshot {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(e *entry) {
			defer wg.Done()
			defer r.sem.Release(1)

			if !pollWritable(e.file) && e.onEvent != nil {
				e.onEvent(EventUnwritable)
			}
		}(e)
	}
	wg.Wait()

	return nil
}

// ReapOtherChild is spec.md §4.G's reap_other_child: called from the
// supervisor's main reap path for every exited pid that wasn't a worker
// slot. Returns false if pid was never registered here.
func (r *Registry) ReapOtherChild(pid int) bool {
	r.mu.Lock()
	e, ok := r.entries[pid]
	if ok {
		delete(r.entries, pid)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	if e.onEvent != nil {
		e.onEvent(EventExited)
	}
	return true
}
