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

package threaded

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	libatm "github.com/nabbar/preforkd/atomic"
	"github.com/nabbar/preforkd/listener"
	"github.com/nabbar/preforkd/scoreboard"
	"github.com/nabbar/preforkd/worker"
)

// pool is spec.md §4.I's single-process stand-in for the prefork fleet: a
// bounded job queue (the buffered channel, whose capacity is the "counting
// semaphore" the spec calls for), one listener goroutine, and a fixed
// goroutine pool draining it.
type pool struct {
	cfg   Config
	board scoreboard.Scoreboard
	ring  *listener.Ring

	queue chan net.Conn

	running  libatm.Value[bool]
	draining libatm.Value[bool]

	wg sync.WaitGroup

	acceptPollInterval time.Duration
}

func newPool(board scoreboard.Scoreboard, ring *listener.Ring, cfg Config) *pool {
	return &pool{
		cfg:                cfg,
		board:              board,
		ring:               ring,
		queue:              make(chan net.Conn, cfg.QueueSize),
		running:            libatm.NewValue[bool](),
		draining:           libatm.NewValue[bool](),
		acceptPollInterval: 50 * time.Millisecond,
	}
}

func (p *pool) Run(ctx context.Context, handler http.Handler) error {
	if p.running.Load() {
		return ErrorAlreadyRunning.Error(nil)
	}
	p.running.Store(true)
	defer p.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.wg.Add(1)
	go p.acceptLoop(runCtx)

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(handler, i)
	}

	<-runCtx.Done()
	cancel()
	p.wg.Wait()
	return nil
}

// Drain stops the listener goroutine from pushing new work and lets the
// worker pool empty the queue before Run's caller tears the pool down,
// matching spec.md §4.I's "preserves... the semantics of graceful death
// (drain the queue first)". The queue itself is closed by acceptLoop, the
// only writer, once it observes the flag — never here — so a concurrent
// accept can never send on an already-closed channel.
func (p *pool) Drain() {
	p.draining.Store(true)
}

// acceptLoop is the spec's "one listener thread running a select/accept
// loop": it owns the listener ring directly (the threaded variant has no
// separate accept-mutex process fleet to coordinate with, so it serializes
// accepts on itself rather than a cross-process acceptmutex.Mutex). It is
// the queue's sole writer, so it alone closes the channel on the way out,
// letting workerLoop's range exit once the queue drains.
func (p *pool) acceptLoop(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.queue)

	for {
		if p.draining.Load() {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		l, ok := p.pickListener()
		if !ok {
			time.Sleep(p.acceptPollInterval)
			continue
		}

		_ = l.TCP.SetDeadline(time.Now().Add(p.acceptPollInterval))
		conn, err := l.TCP.Accept()
		if err != nil {
			continue
		}

		select {
		case p.queue <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

func (p *pool) pickListener() (*listener.Listener, bool) {
	if l, ok := p.ring.Single(); ok {
		return l, true
	}

	ready := make(map[string]bool, p.ring.Len())
	for _, m := range p.ring.Members() {
		ready[m.LocalAddr] = true
	}
	return p.ring.FindReady(ready)
}

// workerLoop is one member of the spec's "fixed pool of worker threads,
// each dequeuing one socket and running the per-connection loop (minus the
// accept step)" — here, worker.ServeConn supplies that per-connection loop.
func (p *pool) workerLoop(handler http.Handler, slot int) {
	defer p.wg.Done()

	for conn := range p.queue {
		_, _ = p.board.UpdateChildStatus(slot, scoreboard.StatusBusyRead, nil)
		_ = worker.ServeConn(handler, conn, p.cfg.HTTP)
		_, _ = p.board.UpdateChildStatus(slot, scoreboard.StatusReady, nil)
	}
}
