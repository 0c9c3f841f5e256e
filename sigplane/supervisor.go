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
)

// CoreDumpFunc is invoked on SIGSEGV/SIGBUS/SIGABRT; the supervisor wires
// this to the coredump package's handler (spec.md §4.H / §9).
type CoreDumpFunc func(sig os.Signal)

// Supervisor is the polled flag set spec.md §4.H assigns to the parent
// process: SIGTERM/SIGINT request shutdown, SIGHUP requests a hard
// restart, SIGUSR1 requests a graceful restart, and the three fatal
// signals route to CoreDumpFunc instead of being handled asynchronously.
type Supervisor struct {
	mu      sync.Mutex
	ch      chan os.Signal
	done    chan struct{}
	dump    CoreDumpFunc
	running bool

	shutdownPending libatm.Value[bool]
	restartPending  libatm.Value[bool]
	isGraceful      libatm.Value[bool]
}

// NewSupervisor returns an uninstalled Supervisor plane; call Install to
// start translating signals.
func NewSupervisor(dump CoreDumpFunc) *Supervisor {
	return &Supervisor{
		dump:            dump,
		shutdownPending: libatm.NewValue[bool](),
		restartPending:  libatm.NewValue[bool](),
		isGraceful:      libatm.NewValue[bool](),
	}
}

// Install registers the signal channel and starts the translator
// goroutine. Calling Install twice without Uninstall returns
// ErrorAlreadyInstalled.
func (s *Supervisor) Install() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrorAlreadyInstalled.Error(nil)
	}

	s.ch = make(chan os.Signal, 8)
	s.done = make(chan struct{})
	s.running = true

	signal.Notify(s.ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP, syscall.SIGUSR1,
		syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGABRT)

	go s.loop()
	return nil
}

// Uninstall stops translating signals and restores the default disposition.
func (s *Supervisor) Uninstall() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrorNotInstalled.Error(nil)
	}

	signal.Stop(s.ch)
	close(s.done)
	s.running = false
	return nil
}

func (s *Supervisor) loop() {
	for {
		select {
		case <-s.done:
			return
		case sig := <-s.ch:
			s.handle(sig)
		}
	}
}

func (s *Supervisor) handle(sig os.Signal) {
	switch sig {
	case syscall.SIGTERM, syscall.SIGINT:
		s.shutdownPending.Store(true)
	case syscall.SIGHUP:
		s.restartPending.Store(true)
		s.isGraceful.Store(false)
	case syscall.SIGUSR1:
		s.restartPending.Store(true)
		s.isGraceful.Store(true)
	case syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGABRT:
		if s.dump != nil {
			s.dump(sig)
		}
	}
}

// ShutdownPending reports whether SIGTERM/SIGINT has been seen.
func (s *Supervisor) ShutdownPending() bool {
	return s.shutdownPending.Load()
}

// RestartPending reports whether SIGHUP or SIGUSR1 has been seen, and
// whether the requested restart is graceful (SIGUSR1) or hard (SIGHUP).
func (s *Supervisor) RestartPending() (pending, graceful bool) {
	return s.restartPending.Load(), s.isGraceful.Load()
}

// ClearRestartPending resets the restart flag once the main loop has acted
// on it, ready to observe the next signal.
func (s *Supervisor) ClearRestartPending() {
	s.restartPending.Store(false)
	s.isGraceful.Store(false)
}
