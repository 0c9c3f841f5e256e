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
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	libatm "github.com/nabbar/preforkd/atomic"
	"github.com/nabbar/preforkd/coredump"
	"github.com/nabbar/preforkd/listener"
	"github.com/nabbar/preforkd/otherchild"
	"github.com/nabbar/preforkd/scoreboard"
	"github.com/nabbar/preforkd/sigplane"
)

type sup struct {
	opt   Options
	board scoreboard.Scoreboard
	ring  *listener.Ring
	sig   *sigplane.Supervisor
	other *otherchild.Registry

	children libatm.MapTyped[int, *exec.Cmd] // slot -> running worker process
	pidSlot  libatm.MapTyped[int, int]       // pid -> slot, for the reap path

	generation libatm.Value[uint32]

	mu               sync.Mutex
	idleSpawnRate    int
	holdOff          int
	maxClientsLogged bool
	burstLogged      bool
}

func newSupervisor(board scoreboard.Scoreboard, ring *listener.Ring, opt Options) *sup {
	if opt.Tick <= 0 {
		opt.Tick = 100 * time.Millisecond
	}

	dump := coredump.New(coredump.Config{Dir: opt.CoreDumpDir, Log: opt.Log})

	return &sup{
		opt:           opt,
		board:         board,
		ring:          ring,
		sig:           sigplane.NewSupervisor(dump),
		other:         otherchild.New(opt.OtherChildProbes),
		children:      libatm.NewMapTyped[int, *exec.Cmd](),
		pidSlot:       libatm.NewMapTyped[int, int](),
		generation:    libatm.NewValue[uint32](),
		idleSpawnRate: 1,
	}
}

func (s *sup) Generation() uint32 {
	return s.generation.Load()
}

func (s *sup) OtherChildren() *otherchild.Registry {
	return s.other
}

// Run is spec.md §4.G's supervisor main loop: spawn/maintain workers,
// reap exited children, and act on the signal plane until shutdown.
func (s *sup) Run(ctx context.Context) error {
	if err := s.sig.Install(); err != nil {
		return err
	}
	defer func() { _ = s.sig.Uninstall() }()

	for {
		select {
		case <-ctx.Done():
			s.reclaimChildren(true)
			return nil
		default:
		}

		s.reapExited()
		s.idleMaintenance()

		if s.sig.ShutdownPending() {
			s.reclaimChildren(true)
			return nil
		}

		if pending, graceful := s.sig.RestartPending(); pending {
			s.sig.ClearRestartPending()
			s.restart(graceful)
		}

		time.Sleep(s.opt.Tick)
	}
}

// idleMaintenance is spec.md §4.G's idle-maintenance algorithm.
func (s *sup) idleMaintenance() {
	limit := s.board.MaxDaemonsLimit() + 1
	if limit > s.board.Len() {
		limit = s.board.Len()
	}

	idleCount := 0
	toKillSlot := -1
	toKillPid := int32(0)
	freeSlots := make([]int, 0, 8)

	for i := 0; i < limit; i++ {
		slot, err := s.board.Slot(i)
		if err != nil {
			continue
		}

		if slot.Status.IsIdle() {
			idleCount++
			if i >= toKillSlot {
				toKillSlot = i
				toKillPid = slot.Pid
			}
		} else if slot.Status == scoreboard.StatusDead {
			if len(freeSlots) < s.currentSpawnRate() {
				freeSlots = append(freeSlots, i)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idleCount > s.opt.Limits.DaemonsMaxFree && toKillSlot >= 0 && toKillPid > 0 {
		_ = syscall.Kill(int(toKillPid), syscall.SIGUSR1)
		s.idleSpawnRate = 1
		return
	}

	if idleCount >= s.opt.Limits.DaemonsMinFree {
		return
	}

	if len(freeSlots) == 0 {
		if !s.maxClientsLogged {
			s.maxClientsLogged = true
		}
		s.idleSpawnRate = 1
		return
	}
	s.maxClientsLogged = false

	for _, slot := range freeSlots {
		_ = s.spawnSlot(slot)
	}

	if s.idleSpawnRate >= 8 {
		s.burstLogged = true
	}

	if s.holdOff > 0 {
		s.holdOff--
		return
	}

	if s.idleSpawnRate < MaxSpawnRateCeiling {
		s.idleSpawnRate *= 2
		if s.idleSpawnRate > MaxSpawnRateCeiling {
			s.idleSpawnRate = MaxSpawnRateCeiling
		}
	}
}

func (s *sup) currentSpawnRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idleSpawnRate
}

// spawnSlot is spec.md §4.G's make_child: self-re-exec a worker bound to
// one scoreboard slot, per Design Notes §9 (no real fork() in Go; the
// child process is a fresh copy of this same binary, told which slot and
// listener fds to use via argv/ExtraFiles).
func (s *sup) spawnSlot(slot int) error {
	exe := s.opt.Executable
	if exe == "" {
		p, err := os.Executable()
		if err != nil {
			return ErrorExecutableNotFound.Error(err)
		}
		exe = p
	}

	args := append(append([]string{}, s.opt.WorkerArgs...), "--slot", strconv.Itoa(slot),
		"--generation", strconv.FormatUint(uint64(s.generation.Load()), 10),
		"--scoreboard-file", s.opt.ScoreboardFile,
		"--scoreboard-size", strconv.Itoa(s.board.Len()),
		"--max-requests", strconv.FormatInt(s.opt.WorkerMaxRequests, 10),
		"--keepalive", s.opt.WorkerKeepAlive.String())

	if b, err := json.Marshal(s.opt.WorkerHTTP); err == nil {
		args = append(args, "--http-config", string(b))
	}

	members := s.ring.Members()
	for _, m := range members {
		args = append(args, "--listen", m.LocalAddr)
	}

	cmd := exec.Command(exe, args...)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	for _, m := range members {
		if f, err := m.TCP.File(); err == nil {
			cmd.ExtraFiles = append(cmd.ExtraFiles, f)
		}
	}

	if err := cmd.Start(); err != nil {
		_, _ = s.board.UpdateChildStatus(slot, scoreboard.StatusDead, nil)
		time.Sleep(10 * time.Second)
		return ErrorSpawnFailed.Error(err)
	}

	s.children.Store(slot, cmd)
	s.pidSlot.Store(cmd.Process.Pid, slot)
	s.board.NoteUsed(slot)
	_, _ = s.board.UpdateChildStatus(slot, scoreboard.StatusStarting, nil)

	return nil
}

// restart is spec.md §4.G's "Pending restart" step: graceful bumps
// exit_generation and lets workers retire at their next checkpoint; hard
// sends SIGHUP and reclaims immediately.
func (s *sup) restart(graceful bool) {
	s.generation.Store(s.generation.Load() + 1)

	if graceful {
		s.board.SetExitGeneration(s.generation.Load())
		s.signalAll(syscall.SIGUSR1)
		s.mu.Lock()
		s.holdOff = GracefulHoldOff
		s.mu.Unlock()
		return
	}

	s.signalAll(syscall.SIGHUP)
	s.reclaimChildren(false)
}

// reclaimChildren is spec.md §4.G's reclaim_child_processes: when
// terminate is true it escalates SIGHUP, SIGHUP, SIGTERM, SIGKILL with
// growing backoff until every tracked child is gone; when false it sends
// a single round and returns, trusting the just-signaled SIGHUP to retire
// workers on its own.
func (s *sup) reclaimChildren(terminate bool) {
	if !terminate {
		return
	}

	delays := []time.Duration{16 * time.Millisecond, 82 * time.Millisecond, 344 * time.Millisecond,
		1400 * time.Millisecond, 6 * time.Second, 14 * time.Second}
	sigs := []syscall.Signal{syscall.SIGHUP, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGKILL}

	s.signalAll(syscall.SIGTERM)

	for round := 0; s.liveChildCount() > 0; round++ {
		sig := sigs[round]
		if round >= len(sigs)-1 {
			sig = sigs[len(sigs)-1]
		}
		s.signalAll(sig)

		delay := delays[len(delays)-1]
		if round < len(delays) {
			delay = delays[round]
		}
		time.Sleep(delay)
		s.reapExited()

		if round >= len(delays)-1 {
			s.signalAll(syscall.SIGKILL)
			s.reapExited()
			return
		}
	}
}

func (s *sup) liveChildCount() int {
	n := 0
	s.children.Range(func(_ int, _ *exec.Cmd) bool {
		n++
		return true
	})
	return n
}

func (s *sup) signalAll(sig syscall.Signal) {
	s.children.Range(func(_ int, cmd *exec.Cmd) bool {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(sig)
		}
		return true
	})
}

// reapExited collects every worker and OtherChild process that has
// exited since the last tick (spec.md §4.G: "Supervisor monitors child
// exits via waitpid").
func (s *sup) reapExited() {
	for {
		pid, ok := waitAny()
		if !ok {
			return
		}

		if slot, found := s.pidSlot.LoadAndDelete(pid); found {
			s.children.Delete(slot)
			_, _ = s.board.UpdateChildStatus(slot, scoreboard.StatusDead, nil)
			continue
		}

		s.other.ReapOtherChild(pid)
	}
}
