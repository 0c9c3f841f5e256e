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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/preforkd/acceptmutex"
	"github.com/nabbar/preforkd/httpserver"
	"github.com/nabbar/preforkd/listener"
	"github.com/nabbar/preforkd/scoreboard"
	"github.com/nabbar/preforkd/worker"
)

// newWorkerCommand builds the hidden subcommand supervisor.spawnSlot
// re-execs this same binary as. Every flag here has a corresponding argv
// entry built in supervisor/model.go's spawnSlot; the two must stay in
// lockstep, which is why both sides of the pairing live in small, literal
// argument lists rather than a shared serialization format.
func newWorkerCommand() *spfcbr.Command {
	var (
		slot           int
		generation     uint32
		scoreboardFile string
		scoreboardSize int
		maxRequests    int64
		keepAlive      time.Duration
		httpConfigJSON string
		listenAddrs    []string
	)

	cmd := &spfcbr.Command{
		Use:    workerSubcommand,
		Short:  "internal: run one prefork worker slot (spawned by the supervisor, not meant to be invoked directly)",
		Hidden: true,
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return runWorker(workerArgs{
				slot:           slot,
				generation:     generation,
				scoreboardFile: scoreboardFile,
				scoreboardSize: scoreboardSize,
				maxRequests:    maxRequests,
				keepAlive:      keepAlive,
				httpConfigJSON: httpConfigJSON,
				listenAddrs:    listenAddrs,
			})
		},
	}

	cmd.Flags().IntVar(&slot, "slot", 0, "scoreboard slot index this worker owns")
	cmd.Flags().Uint32Var(&generation, "generation", 0, "restart generation at spawn time")
	cmd.Flags().StringVar(&scoreboardFile, "scoreboard-file", "", "path to the shared scoreboard backend file")
	cmd.Flags().IntVar(&scoreboardSize, "scoreboard-size", defaultHardServerLimit, "slot count the scoreboard backend was sized with")
	cmd.Flags().Int64Var(&maxRequests, "max-requests", 0, "requests served before this worker retires itself")
	cmd.Flags().DurationVar(&keepAlive, "keepalive", 0, "idle timeout between requests on a persistent connection")
	cmd.Flags().StringVar(&httpConfigJSON, "http-config", "", "JSON-encoded httpserver.ServerConfig")
	cmd.Flags().StringArrayVar(&listenAddrs, "listen", nil, "listener address, paired in order with an inherited file descriptor starting at fd 3")

	return cmd
}

type workerArgs struct {
	slot           int
	generation     uint32
	scoreboardFile string
	scoreboardSize int
	maxRequests    int64
	keepAlive      time.Duration
	httpConfigJSON string
	listenAddrs    []string
}

// runWorker is spec.md §4.F's per-slot worker: attach to the inherited
// listeners and shared scoreboard, serialize accept through the mutex, and
// serve connections until MaxRequestsPerChild retires this process or the
// supervisor signals it to exit.
func runWorker(a workerArgs) error {
	files := make([]*os.File, len(a.listenAddrs))
	for i := range a.listenAddrs {
		files[i] = os.NewFile(uintptr(3+i), fmt.Sprintf("listener-%d", i))
	}

	ring, err := listener.FromInherited(a.listenAddrs, files)
	if err != nil {
		return err
	}
	defer func() { _ = ring.Close() }()

	backend, err := scoreboard.NewFileBackend(a.scoreboardFile, a.scoreboardSize)
	if err != nil {
		return err
	}
	board := scoreboard.New(backend)
	defer func() { _ = board.Close() }()

	var httpCfg httpserver.ServerConfig
	if a.httpConfigJSON != "" {
		if err = json.Unmarshal([]byte(a.httpConfigJSON), &httpCfg); err != nil {
			return err
		}
	}

	kind := acceptmutex.KindFlock
	if _, single := ring.Single(); single {
		kind = acceptmutex.KindNone
	}

	mutex := acceptmutex.New(kind, filepath.Join(filepath.Dir(a.scoreboardFile), appName+".mutex"))
	if err = mutex.Init(); err != nil {
		return err
	}
	if err = mutex.ChildInit(); err != nil {
		return err
	}
	defer func() { _ = mutex.Close() }()

	w, err := worker.New(board, mutex, ring, worker.Config{
		Slot:                a.slot,
		MaxRequestsPerChild: a.maxRequests,
		KeepAliveTimeout:    a.keepAlive,
		HTTP:                httpCfg,
	})
	if err != nil {
		return err
	}

	// generation is not read back by the worker itself: the supervisor
	// already wrote it into the scoreboard's ExitGeneration before this
	// process was spawned, which is what Serve's retirement check
	// actually compares against.
	_ = a.generation

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	return w.Serve(ctx, requestHandler())
}
