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

package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	spfcbr "github.com/spf13/cobra"

	libatm "github.com/nabbar/preforkd/atomic"
	cfgtps "github.com/nabbar/preforkd/config/types"
	liblog "github.com/nabbar/preforkd/logger"
	"github.com/nabbar/preforkd/scoreboard"
	libsts "github.com/nabbar/preforkd/status"
	libver "github.com/nabbar/preforkd/version"
	libvpr "github.com/nabbar/preforkd/viper"
)

// ComponentType is this component's registration key, exposing the
// Prometheus exporter as a config/types.Component so cmd/preforkd can start
// it with the same lifecycle machinery as supervisor.
const ComponentType = "metrics"

type defaultConfig struct {
	Namespace string `json:"namespace"`
	Subsystem string `json:"subsystem"`
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
	cfg   Config

	started libatm.Value[bool]
	exp     Exporter
}

// NewComponent wraps an Exporter as a config/types.Component.
func NewComponent(board scoreboard.Scoreboard, cfg Config) cfgtps.Component {
	return &component{board: board, cfg: cfg, started: libatm.NewValue[bool]()}
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
	cfg := defaultConfig{Namespace: c.cfg.Namespace, Subsystem: c.cfg.Subsystem}
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
	cmd.Flags().String("metrics-namespace", c.cfg.Namespace, "Prometheus metric namespace prefix")

	if c.vpr != nil {
		if v := c.vpr(); v != nil {
			_ = v.Viper().BindPFlag("metrics_namespace", cmd.Flags().Lookup("metrics-namespace"))
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

func (c *component) Start() error {
	if c.staBefore != nil {
		if err := c.staBefore(c); err != nil {
			return err
		}
	}

	if c.vpr != nil {
		if v := c.vpr(); v != nil {
			if ns := v.Viper().GetString("metrics_namespace"); ns != "" {
				c.cfg.Namespace = ns
			}
		}
	}

	c.exp = New(c.board, c.cfg)
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
	c.started.Store(false)
}

// Handler exposes the exporter's promhttp handler once started, so
// cmd/preforkd can mount it on the admin mux alongside the status route.
// It returns nil until Start has run.
func (c *component) Handler() http.Handler {
	if c.exp == nil {
		return nil
	}
	return c.exp.Handler()
}
