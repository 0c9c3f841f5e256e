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
	"sync"

	spfcbr "github.com/spf13/cobra"

	libatm "github.com/nabbar/preforkd/atomic"
	cfgtps "github.com/nabbar/preforkd/config/types"
	"github.com/nabbar/preforkd/listener"
	liblog "github.com/nabbar/preforkd/logger"
	"github.com/nabbar/preforkd/scoreboard"
	libsts "github.com/nabbar/preforkd/status"
	libver "github.com/nabbar/preforkd/version"
	libvpr "github.com/nabbar/preforkd/viper"
)

// ComponentType is this component's registration key type, spec.md §4.G's
// supervisor exposed as a config/types.Component so cmd/preforkd can start
// it like any other subsystem.
const ComponentType = "supervisor"

type defaultConfig struct {
	DaemonsMinFree int   `json:"daemons_min_free"`
	DaemonsMaxFree int   `json:"daemons_max_free"`
	TickMs         int64 `json:"tick_ms"`
}

type component struct {
	key string
	ctx context.Context
	get cfgtps.FuncCptGet
	vpr libvpr.FuncViper
	vrs libver.Version
	log liblog.FuncLog

	route libsts.FuncRoute

	staBefore, staAfter cfgtps.FuncCptEvent
	relBefore, relAfter cfgtps.FuncCptEvent

	mu   sync.Mutex
	deps []string

	board scoreboard.Scoreboard
	ring  *listener.Ring
	opt   Options

	started libatm.Value[bool]
	core    *sup
	cancel  context.CancelFunc
}

// NewComponent wraps a Supervisor as a config/types.Component, so it can
// be registered and lifecycle-managed alongside any other component.
func NewComponent(board scoreboard.Scoreboard, ring *listener.Ring, opt Options) cfgtps.Component {
	return &component{board: board, ring: ring, opt: opt, started: libatm.NewValue[bool]()}
}

func (c *component) Type() string {
	return ComponentType
}

func (c *component) Init(key string, ctx context.Context, get cfgtps.FuncCptGet, vpr libvpr.FuncViper, vrs libver.Version, log liblog.FuncLog) {
	c.key = key
	c.ctx = ctx
	c.get = get
	c.vpr = vpr
	c.vrs = vrs
	c.log = log
}

func (c *component) DefaultConfig(indent string) []byte {
	cfg := defaultConfig{
		DaemonsMinFree: c.opt.Limits.DaemonsMinFree,
		DaemonsMaxFree: c.opt.Limits.DaemonsMaxFree,
		TickMs:         c.opt.Tick.Milliseconds(),
	}

	b, _ := json.MarshalIndent(cfg, "", indent)
	return b
}

func (c *component) Dependencies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.deps) == 0 {
		return []string{}
	}
	return append([]string{}, c.deps...)
}

func (c *component) SetDependencies(d []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps = d
	return nil
}

func (c *component) RegisterFlag(cmd *spfcbr.Command) error {
	cmd.Flags().Int("daemons-min-free", c.opt.Limits.DaemonsMinFree, "minimum idle workers kept spare")
	cmd.Flags().Int("daemons-max-free", c.opt.Limits.DaemonsMaxFree, "maximum idle workers kept spare before retiring one")
	cmd.Flags().String("coredump-dir", c.opt.CoreDumpDir, "directory to chdir into before a fatal signal re-raises")

	if c.vpr != nil {
		if v := c.vpr(); v != nil {
			_ = v.Viper().BindPFlag("daemons_min_free", cmd.Flags().Lookup("daemons-min-free"))
			_ = v.Viper().BindPFlag("daemons_max_free", cmd.Flags().Lookup("daemons-max-free"))
			_ = v.Viper().BindPFlag("coredump_dir", cmd.Flags().Lookup("coredump-dir"))
		}
	}
	return nil
}

func (c *component) RegisterStatusRoute(p libsts.FuncRoute) {
	c.route = p
}

func (c *component) RegisterFuncStart(before, after cfgtps.FuncCptEvent) {
	c.staBefore, c.staAfter = before, after
}

func (c *component) RegisterFuncReload(before, after cfgtps.FuncCptEvent) {
	c.relBefore, c.relAfter = before, after
}

func (c *component) IsStarted() bool {
	return c.started.Load()
}

func (c *component) IsRunning() bool {
	return c.started.Load()
}

// Start launches the supervisor's Run loop in the background, per
// config/types.ComponentEvent's contract that Start must not block.
func (c *component) Start() error {
	if c.staBefore != nil {
		if err := c.staBefore(c); err != nil {
			return err
		}
	}

	if c.vpr != nil {
		if v := c.vpr(); v != nil {
			if n := v.Viper().GetInt("daemons_min_free"); n > 0 {
				c.opt.Limits.DaemonsMinFree = n
			}
			if n := v.Viper().GetInt("daemons_max_free"); n > 0 {
				c.opt.Limits.DaemonsMaxFree = n
			}
			if d := v.Viper().GetString("coredump_dir"); d != "" {
				c.opt.CoreDumpDir = d
			}
		}
	}
	c.opt.Log = c.log

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.core = newSupervisor(c.board, c.ring, c.opt)

	go func() { _ = c.core.Run(runCtx) }()

	c.started.Store(true)

	if c.staAfter != nil {
		return c.staAfter(c)
	}
	return nil
}

func (c *component) Reload() error {
	if c.relBefore != nil {
		if err := c.relBefore(c); err != nil {
			return err
		}
	}

	c.Stop()
	err := c.Start()

	if err == nil && c.relAfter != nil {
		return c.relAfter(c)
	}
	return err
}

func (c *component) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.started.Store(false)
}
