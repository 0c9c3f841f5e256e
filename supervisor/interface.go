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

package supervisor

import (
	"context"
	"time"

	"github.com/nabbar/preforkd/httpserver"
	"github.com/nabbar/preforkd/listener"
	liblog "github.com/nabbar/preforkd/logger"
	"github.com/nabbar/preforkd/otherchild"
	"github.com/nabbar/preforkd/scoreboard"
)

// MaxSpawnRateCeiling is spec.md §4.G's MAX_SPAWN_RATE: idle_spawn_rate
// never doubles past this.
const MaxSpawnRateCeiling = 32

// GracefulHoldOff is the number of maintenance ticks idle_spawn_rate stays
// pinned to 1 after a graceful restart, spec.md §4.G's
// hold_off_on_exponential_spawning.
const GracefulHoldOff = 10

// Limits is spec.md's ServerLimits: the knobs the idle-maintenance
// algorithm reads every tick.
type Limits struct {
	DaemonsMinFree int
	DaemonsMaxFree int
}

// Options configures a Supervisor.
type Options struct {
	// Executable is the binary to re-exec for each worker; empty resolves
	// via os.Executable() (spec.md's Go translation of fork+exec).
	Executable string

	// WorkerArgs is prefixed to every spawned worker's argv, typically the
	// hidden worker subcommand (e.g. "__worker").
	WorkerArgs []string

	// Addrs is the set of listen addresses workers accept connections
	// from, via the inherited listener ring.
	Addrs []string

	Limits Limits

	// Tick is the main loop's polling interval; 100ms if zero.
	Tick time.Duration

	// OtherChildProbes bounds concurrent probe_writable_fds fan-out.
	OtherChildProbes int64

	// ScoreboardFile is the path to the file-backed scoreboard every
	// spawned worker re-opens via scoreboard.NewFileBackend, so the
	// parent's in-memory scoreboard.Scoreboard and each child's view of
	// slot state stay in sync across the process boundary (spec.md
	// §4.A's shared-memory scoreboard, minus an actual shm segment).
	ScoreboardFile string

	// WorkerHTTP is the HTTP/1+2 tuning (and optional TLS) every spawned
	// worker applies to its per-connection *http.Server, propagated
	// across exec as JSON (spec.md §9's note that argv/env stand in for
	// the C implementation's inherited address space).
	WorkerHTTP httpserver.ServerConfig

	// WorkerMaxRequests is spec.md §4.F's MaxRequestsPerChild, forwarded
	// to each spawned worker.
	WorkerMaxRequests int64

	// WorkerKeepAlive is the per-connection idle timeout forwarded to
	// each spawned worker.
	WorkerKeepAlive time.Duration

	// CoreDumpDir is the directory the process chdirs into before a fatal
	// signal (SIGSEGV/SIGBUS/SIGABRT) re-raises, spec.md §4.H's
	// coredump_dir. Empty leaves the current working directory untouched.
	CoreDumpDir string

	// Log feeds the coredump handler's diagnostic entry; nil skips logging.
	Log liblog.FuncLog
}

// Supervisor is spec.md §4.G's parent-process loop.
type Supervisor interface {
	// Run blocks until ctx is cancelled or a shutdown signal is observed,
	// spawning/reaping/restarting workers per the idle-maintenance
	// algorithm and the signal plane.
	Run(ctx context.Context) error

	// Generation reports the current restart generation, bumped on every
	// graceful or hard restart.
	Generation() uint32

	// OtherChildren exposes the OtherChild registry so callers (e.g. a
	// future piped-logging component) can register non-worker children.
	OtherChildren() *otherchild.Registry
}

// New builds a Supervisor around the given scoreboard and listener ring.
func New(board scoreboard.Scoreboard, ring *listener.Ring, opt Options) Supervisor {
	return newSupervisor(board, ring, opt)
}
