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
	"net/http"

	"github.com/nabbar/preforkd/httpserver"
	"github.com/nabbar/preforkd/listener"
	"github.com/nabbar/preforkd/scoreboard"
)

// Config sizes the threaded variant's job queue and worker-goroutine pool.
type Config struct {
	// Workers is the fixed pool size (spec.md §4.I's "fixed pool of
	// worker threads").
	Workers int

	// QueueSize bounds the job queue depth; the listener goroutine blocks
	// once it is full, which is the counting-semaphore behavior spec.md
	// §4.I calls for.
	QueueSize int

	// HTTP carries the HTTP/1 and HTTP/2 tuning (and optional TLS) each
	// pool worker applies to its per-connection *http.Server via
	// httpserver.NewHTTPServer / worker.ServeConn.
	HTTP httpserver.ServerConfig
}

// Pool is spec.md §4.I's single-process dispatcher: one listener
// goroutine feeding a bounded job queue, drained by a fixed worker-
// goroutine pool.
type Pool interface {
	// Run starts the listener and worker goroutines and blocks until ctx
	// is cancelled or Drain is called and the queue empties.
	Run(ctx context.Context, handler http.Handler) error

	// Drain stops accepting new connections and waits for the queue to
	// empty before Run returns, preserving "the semantics of graceful
	// death (drain the queue first)".
	Drain()
}

// New builds a Pool bound to the given process-local scoreboard and
// listener ring.
func New(board scoreboard.Scoreboard, ring *listener.Ring, cfg Config) Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 4
	}
	return newPool(board, ring, cfg)
}
