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

package sigplane

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	libatm "github.com/nabbar/preforkd/atomic"
	"github.com/nabbar/preforkd/timeout"
)

// Worker is the polled flag set spec.md §4.H assigns to a prefork child:
// SIGHUP/SIGTERM always mean just_die (honoring the timeout Plane's
// block/unblock nesting via RequestExitAfterUnblock); SIGUSR1 means
// just_die only when UsingUsr1JustDie is true (install-time, just after
// fork, before the per-connection loop re-enables graceful-die), otherwise
// it sets deferred_die; SIGALRM/SIGPIPE have no meaning on this platform
// and are not installed here (time.AfterFunc already drives the alarm
// plane, and Go's runtime already ignores SIGPIPE on writes to a closed
// socket by delivering an error instead).
type Worker struct {
	mu      sync.Mutex
	ch      chan os.Signal
	done    chan struct{}
	running bool

	alarms *timeout.Plane

	usr1JustDie libatm.Value[bool]
	deferredDie libatm.Value[bool]
}

// NewWorker returns an uninstalled Worker plane bound to the connection's
// timeout Plane.
func NewWorker(alarms *timeout.Plane) *Worker {
	w := &Worker{
		alarms:      alarms,
		usr1JustDie: libatm.NewValue[bool](),
		deferredDie: libatm.NewValue[bool](),
	}
	return w
}

// SetUsr1JustDie toggles whether SIGUSR1 means immediate death (true, used
// right after fork and while outside a connection) or deferred death
// (false, the default, used while serving a request).
func (w *Worker) SetUsr1JustDie(v bool) {
	w.usr1JustDie.Store(v)
}

// Install starts translating signals for this worker.
func (w *Worker) Install() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrorAlreadyInstalled.Error(nil)
	}

	w.ch = make(chan os.Signal, 8)
	w.done = make(chan struct{})
	w.running = true

	signal.Notify(w.ch, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGUSR1)

	go w.loop()
	return nil
}

// Uninstall stops translating signals for this worker.
func (w *Worker) Uninstall() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return ErrorNotInstalled.Error(nil)
	}

	signal.Stop(w.ch)
	close(w.done)
	w.running = false
	return nil
}

func (w *Worker) loop() {
	for {
		select {
		case <-w.done:
			return
		case sig := <-w.ch:
			w.handle(sig)
		}
	}
}

func (w *Worker) handle(sig os.Signal) {
	switch sig {
	case syscall.SIGHUP, syscall.SIGTERM:
		w.justDie()
	case syscall.SIGUSR1:
		if w.usr1JustDie.Load() {
			w.justDie()
		} else {
			w.deferredDie.Store(true)
		}
	}
}

// justDie requests the process exit at the next safe point, deferring to
// the timeout Plane if currently inside a block_alarms section.
func (w *Worker) justDie() {
	if w.alarms != nil {
		w.alarms.RequestExitAfterUnblock()
	}
	w.deferredDie.Store(true)
}

// DeferredDie reports whether a graceful-death request is pending; the
// worker loop checks this between connections and, for a just_die, at the
// next alarm-unblock.
func (w *Worker) DeferredDie() bool {
	return w.deferredDie.Load()
}

// ClearDeferredDie resets the flag once the worker loop has acted on it.
func (w *Worker) ClearDeferredDie() {
	w.deferredDie.Store(false)
}
