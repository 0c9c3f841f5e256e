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

// Command preforkd is the prefork-style origin server's entrypoint: a
// cobra root command that starts the supervisor/listener-ring/scoreboard
// machinery, plus a hidden __worker subcommand the supervisor re-execs
// itself as for every spawned child (spec.md §9's Go translation of
// fork+exec: there is no fork(2), so the next generation of "this process"
// is a fresh run of the same binary, told its role via argv).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	spfcbr "github.com/spf13/cobra"

	libcbr "github.com/nabbar/preforkd/cobra"
	"github.com/nabbar/preforkd/config"
	"github.com/nabbar/preforkd/httpserver"
	"github.com/nabbar/preforkd/listener"
	liblog "github.com/nabbar/preforkd/logger"
	"github.com/nabbar/preforkd/metrics"
	"github.com/nabbar/preforkd/scoreboard"
	"github.com/nabbar/preforkd/supervisor"
	"github.com/nabbar/preforkd/threaded"
	"github.com/nabbar/preforkd/version"
	libvpr "github.com/nabbar/preforkd/viper"
)

const (
	appName = "preforkd"

	// workerSubcommand is the hidden argv[1] the supervisor re-execs
	// itself with for every spawned child (spec.md §4.G make_child).
	workerSubcommand = "__worker"

	// defaultHardServerLimit is the scoreboard's fixed slot count absent
	// an explicit "hard-server-limit" directive, spec.md §3's
	// HARD_SERVER_LIMIT.
	defaultHardServerLimit = 256
)

var (
	flagServerRoot     string
	flagConfigFile     string
	flagDefineFirst    []string
	flagDefineLast     []string
	flagSingleProc     bool
	flagCompileInfo    bool
	flagListMods       bool
	flagListen         []string
	flagHardServerLim  int
	flagScoreboardFile string
)

func newVersion() version.Version {
	return version.New(version.License_MIT, appName,
		"HTTP/1.0+ prefork-style origin server, translated from the Apache httpd process model",
		"2026-07-30", "source", "0.1.0", "preforkd maintainers", appName, nil)
}

func main() {
	vrs := newVersion()
	vpr := libvpr.New(context.Background(), nil)
	getViper := func() libvpr.Viper { return vpr }

	app := libcbr.New()
	app.SetVersion(vrs)
	app.SetViper(getViper)
	app.Init()

	registerFlags(app, vpr)

	cfg := config.New(vrs)
	cfg.RegisterFuncViper(getViper)
	cfg.RegisterDefaultLogger(func() liblog.Logger { return liblog.New(context.Background) })

	app.Cobra().RunE = func(cmd *spfcbr.Command, args []string) error {
		return run(vrs, vpr, cfg)
	}

	app.AddCommand(newWorkerCommand())

	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// registerFlags wires the CLI surface spec.md §6 describes: -d (ServerRoot),
// -f (config file), -C/-c (directives applied before/after the config file
// loads), -X (single-process debug mode), -V (compile settings), -l (list
// registered modules), plus the listener/scoreboard sizing flags that must
// exist before cobra parses argv, since the board and ring they configure
// are built from the parsed values inside run (there is no fork()-style
// late flag registration once Execute has started parsing). -C/-c
// intentionally bypass the teacher cobra wrapper's own SetFlagConfig, which
// hardcodes "-c" for the config file path itself — Apache's "-c" means
// something else entirely (a directive processed after the config file),
// so this repo's -f takes over the config-file role and -C/-c are free for
// their httpd meaning. Each flag is also bound to vpr so a config file or
// a -C/-c directive can supply the same setting without a flag at all.
func registerFlags(app libcbr.Cobra, vpr libvpr.Viper) {
	app.AddFlagString(true, &flagServerRoot, "server-root", "d", "", "chdir here before resolving relative paths (ServerRoot)")
	app.AddFlagString(true, &flagConfigFile, "config-file", "f", "", "path to the configuration file")
	app.AddFlagStringArray(true, &flagDefineFirst, "define-before", "C", nil, "key=value directive applied before the config file loads; may be repeated")
	app.AddFlagStringArray(true, &flagDefineLast, "define-after", "c", nil, "key=value directive applied after the config file loads; may be repeated")
	app.AddFlagBool(true, &flagSingleProc, "single-process", "X", false, "run as a single foreground process instead of supervisor+workers")
	app.AddFlagBool(true, &flagCompileInfo, "compile-settings", "V", false, "print version and compiled-in settings, then exit")
	app.AddFlagBool(true, &flagListMods, "list-modules", "l", false, "list registered components, then exit")

	app.AddFlagStringArray(true, &flagListen, "listen", "", nil, "address to bind a listener to; may be repeated")
	app.AddFlagInt(true, &flagHardServerLim, "hard-server-limit", "", defaultHardServerLimit, "fixed scoreboard slot count")
	app.AddFlagString(true, &flagScoreboardFile, "scoreboard-file", "", "", "path to the shared scoreboard backend file")

	v := vpr.Viper()
	_ = v.BindPFlag("listen", app.Cobra().PersistentFlags().Lookup("listen"))
	_ = v.BindPFlag("hard-server-limit", app.Cobra().PersistentFlags().Lookup("hard-server-limit"))
	_ = v.BindPFlag("scoreboard-file", app.Cobra().PersistentFlags().Lookup("scoreboard-file"))
}

// applyDirectives is spec.md §6's "-C/-c directive" mechanism: each entry is
// a key=value pair folded straight into the shared viper instance, the same
// one components read their settings from.
func applyDirectives(vpr libvpr.Viper, directives []string) {
	for _, d := range directives {
		k, v, ok := strings.Cut(d, "=")
		if !ok {
			continue
		}
		vpr.Viper().Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}
}

func run(vrs version.Version, vpr libvpr.Viper, cfg config.Config) error {
	if flagCompileInfo {
		fmt.Println(vrs.GetHeader())
		return nil
	}

	if flagServerRoot != "" {
		if err := os.Chdir(flagServerRoot); err != nil {
			return fmt.Errorf("chdir into server root %q: %w", flagServerRoot, err)
		}
	}

	applyDirectives(vpr, flagDefineFirst)

	if flagConfigFile != "" {
		vpr.SetConfigFile(flagConfigFile)
	}
	_ = vpr.ConfigRead() // a missing config file is not fatal: flags and directives still apply

	applyDirectives(vpr, flagDefineLast)

	addrs := vpr.Viper().GetStringSlice("listen")
	if len(addrs) == 0 {
		addrs = []string{":8080"}
	}

	limit := vpr.Viper().GetInt("hard-server-limit")
	if limit <= 0 {
		limit = defaultHardServerLimit
	}

	scoreboardFile := vpr.Viper().GetString("scoreboard-file")
	if scoreboardFile == "" {
		scoreboardFile = filepath.Join(os.TempDir(), appName+".scoreboard")
	}

	backend, err := scoreboard.NewFileBackend(scoreboardFile, limit)
	if err != nil {
		return err
	}
	board := scoreboard.New(backend)

	ring := listener.New()
	if err = ring.Setup(addrs, listener.DefaultOptions(), nil); err != nil {
		return err
	}
	defer func() { _ = ring.Close() }()

	httpCfg := httpserver.ServerConfig{}

	if flagListMods {
		registerComponents(cfg, board, ring, addrs, scoreboardFile, httpCfg)
		for _, k := range cfg.ComponentKeys() {
			fmt.Println(k)
		}
		return nil
	}

	if flagSingleProc {
		return runSingleProcess(board, ring, httpCfg)
	}

	registerComponents(cfg, board, ring, addrs, scoreboardFile, httpCfg)

	// Component-level tuning (daemons-min-free, coredump-dir, ...) is read
	// directly from vpr by each component's Start, sourced from the config
	// file or a -C/-c directive — not from dedicated CLI flags, since
	// those would need registering before cobra parses argv, before the
	// components that own them can even be constructed.
	if err = cfg.Start(); err != nil {
		return err
	}

	config.WaitNotify()
	cfg.Stop()

	return nil
}

func registerComponents(cfg config.Config, board scoreboard.Scoreboard, ring *listener.Ring, addrs []string, scoreboardFile string, httpCfg httpserver.ServerConfig) {
	exe, _ := os.Executable()

	supOpt := supervisor.Options{
		Executable:     exe,
		WorkerArgs:     []string{workerSubcommand},
		Addrs:          addrs,
		Limits:         supervisor.Limits{DaemonsMinFree: 1, DaemonsMaxFree: 10},
		ScoreboardFile: scoreboardFile,
		WorkerHTTP:     httpCfg,
	}

	cfg.ComponentSet(supervisor.ComponentType, supervisor.NewComponent(board, ring, supOpt))
	cfg.ComponentSet(metrics.ComponentType, metrics.NewComponent(board, metrics.Config{Namespace: appName}))
}

// runSingleProcess is spec.md §4.I's threaded variant: the dispatch used on
// Windows (no fork-like primitive to prefork with) or under -X, one process
// with a fixed worker-goroutine pool instead of a supervisor tree.
func runSingleProcess(board scoreboard.Scoreboard, ring *listener.Ring, httpCfg httpserver.ServerConfig) error {
	pool := threaded.New(board, ring, threaded.Config{HTTP: httpCfg})
	return pool.Run(context.Background(), requestHandler())
}

// requestHandler is the content-serving handler both the threaded pool and
// every spawned worker ultimately dispatch to. spec.md scopes the
// connection-dispatch engine, not a document root / content layer, so this
// stands in for whatever handler a real deployment would mount.
func requestHandler() http.Handler {
	return http.NotFoundHandler()
}
