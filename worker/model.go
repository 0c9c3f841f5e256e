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

package worker

import (
	"context"
	"net"
	"net/http"
	"time"

	libatm "github.com/nabbar/preforkd/atomic"
	"github.com/nabbar/preforkd/acceptmutex"
	"github.com/nabbar/preforkd/httpserver"
	"github.com/nabbar/preforkd/lingerclose"
	"github.com/nabbar/preforkd/listener"
	"github.com/nabbar/preforkd/scoreboard"
	"github.com/nabbar/preforkd/timeout"
)

// connTrack is the per-in-flight-connection bookkeeping worker keeps in its
// atomic.MapTyped, grounded on the same generics the teacher uses for its
// shared-state registries (atomic/mapany.go, atomic/synmap.go) rather than a
// bare map+mutex.
type connTrack struct {
	adapter *singleConnListener
}

type wrk struct {
	cfg   Config
	board scoreboard.Scoreboard
	mtx   acceptmutex.Mutex
	ring  *listener.Ring
	alarm *timeout.Plane

	srv *http.Server

	conns    libatm.MapTyped[net.Conn, *connTrack]
	requests libatm.Value[int64]
	stopping libatm.Value[bool]
}

func newWorker(board scoreboard.Scoreboard, mutex acceptmutex.Mutex, ring *listener.Ring, cfg Config) (*wrk, error) {
	if cfg.AcceptPollInterval <= 0 {
		cfg.AcceptPollInterval = 50 * time.Millisecond
	}

	w := &wrk{
		cfg:      cfg,
		board:    board,
		mtx:      mutex,
		ring:     ring,
		alarm:    timeout.New(),
		conns:    libatm.NewMapTyped[net.Conn, *connTrack](),
		requests: libatm.NewValue[int64](),
		stopping: libatm.NewValue[bool](),
	}

	srv, err := httpserver.NewHTTPServer(cfg.HTTP, nil)
	if err != nil {
		return nil, err
	}
	srv.ConnState = w.onConnState
	w.srv = srv

	return w, nil
}

func (w *wrk) RequestsServed() int64 {
	return w.requests.Load()
}

func (w *wrk) Stop() {
	w.stopping.Store(true)
}

func (w *wrk) Serve(ctx context.Context, handler http.Handler) error {
	w.srv.Handler = handler

	for {
		if w.stopping.Load() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if w.cfg.MaxRequestsPerChild > 0 && w.requests.Load() >= w.cfg.MaxRequestsPerChild {
			return ErrorMaxRequestsReached.Error(nil)
		}

		l, ok := w.pickListener()
		if !ok {
			time.Sleep(w.cfg.AcceptPollInterval)
			continue
		}

		if err := w.mtx.Lock(); err != nil {
			return ErrorAcceptFailed.Error(err)
		}

		conn, err := l.TCP.Accept()
		_ = w.mtx.Unlock()

		if err != nil {
			continue
		}

		w.handleConn(conn)
	}
}

// pickListener favors the single-listener fast path spec.md §4.F calls out
// (most worker configurations bind exactly one address) and otherwise takes
// whatever the ring's round-robin rotation currently offers.
func (w *wrk) pickListener() (*listener.Listener, bool) {
	if l, ok := w.ring.Single(); ok {
		return l, true
	}

	ready := make(map[string]bool, w.ring.Len())
	for _, m := range w.ring.Members() {
		ready[m.LocalAddr] = true
	}
	return w.ring.FindReady(ready)
}

func (w *wrk) handleConn(conn net.Conn) {
	_, _ = w.board.UpdateChildStatus(w.cfg.Slot, scoreboard.StatusStarting, nil)

	adapter := newSingleConnListener(conn)
	w.conns.Store(conn, &connTrack{adapter: adapter})
	defer w.conns.Delete(conn)

	if w.cfg.KeepAliveTimeout > 0 {
		w.alarm.HardTimeout("conn", w.cfg.KeepAliveTimeout, func(string, timeout.Kind) {
			_ = lingerclose.Close(conn, nil)
			_ = adapter.Close()
		})
		defer w.alarm.KillTimeout()
	}

	_ = w.srv.Serve(adapter)

	_, _ = w.board.UpdateChildStatus(w.cfg.Slot, scoreboard.StatusReady, nil)
}

// onConnState mirrors spec.md §4.A's status transitions onto the
// scoreboard, and releases the per-connection singleConnListener once the
// standard library reports the connection gone so Serve can return.
func (w *wrk) onConnState(conn net.Conn, state http.ConnState) {
	switch state {
	case http.StateActive:
		w.requests.Store(w.requests.Load() + 1)
		_, _ = w.board.UpdateChildStatus(w.cfg.Slot, scoreboard.StatusBusyRead, &scoreboard.RequestInfo{AccessCountDelta: 1})
		if w.cfg.KeepAliveTimeout > 0 {
			_ = w.alarm.ResetTimeout()
		}

	case http.StateIdle:
		_, _ = w.board.UpdateChildStatus(w.cfg.Slot, scoreboard.StatusBusyKeepAlive, nil)
		if w.cfg.KeepAliveTimeout > 0 {
			_ = w.alarm.ResetTimeout()
		}

	case http.StateClosed, http.StateHijacked:
		if ct, ok := w.conns.Load(conn); ok {
			_ = ct.adapter.Close()
		}
	}
}
