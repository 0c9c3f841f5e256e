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
	"net/http"
	"time"

	"github.com/nabbar/preforkd/acceptmutex"
	"github.com/nabbar/preforkd/httpserver"
	"github.com/nabbar/preforkd/listener"
	"github.com/nabbar/preforkd/scoreboard"
)

// Config is the subset of ServerLimits (spec.md's data model) that a single
// worker slot needs to run its accept/serve cycle.
type Config struct {
	// Slot is this worker's index into the scoreboard.
	Slot int

	// MaxRequestsPerChild bounds the number of requests served before the
	// worker retires itself; zero means unbounded (spec.md §4.F).
	MaxRequestsPerChild int64

	// KeepAliveTimeout is the idle deadline armed on the timeout Plane
	// between requests on a persistent connection.
	KeepAliveTimeout time.Duration

	// AcceptPollInterval bounds how long Serve backs off when no listener
	// in the ring reports ready, avoiding a busy spin.
	AcceptPollInterval time.Duration

	// HTTP carries the HTTP/1 and HTTP/2 tuning (and optional TLS) applied
	// to this worker's *http.Server via httpserver.NewHTTPServer. The zero
	// value keeps Go's http.Server defaults.
	HTTP httpserver.ServerConfig
}

// Worker is spec.md §4.F's per-slot connection cycle: accept-mutex-
// serialized accept from the Listener Ring, HTTP handling via http.Server,
// scoreboard status transitions, and lingering close retirement.
type Worker interface {
	// Serve runs the accept/serve loop until ctx is cancelled, the worker
	// reaches MaxRequestsPerChild, or Stop is called.
	Serve(ctx context.Context, handler http.Handler) error

	// Stop requests the current cycle to return after the in-flight
	// connection (if any) finishes.
	Stop()

	// RequestsServed reports the lifetime request count for this slot.
	RequestsServed() int64
}

// New builds a Worker bound to the given scoreboard slot, accept mutex,
// listener ring and timeout plane. It returns an error if cfg.HTTP fails to
// build a tuned *http.Server (e.g. an invalid TLS certificate pair).
func New(board scoreboard.Scoreboard, mutex acceptmutex.Mutex, ring *listener.Ring, cfg Config) (Worker, error) {
	return newWorker(board, mutex, ring, cfg)
}
