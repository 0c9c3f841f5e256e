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

package coredump

import (
	"fmt"
	"os"
	"sync"

	loglvl "github.com/nabbar/preforkd/logger/level"
)

// dumper is the stateful side of the handler: sync.Once guards against the
// fatal-signal path re-entering (a second SIGSEGV firing while this one is
// still chdir'ing/logging), the Go analogue of sig_coredump resetting the
// signal's disposition to SIG_DFL before doing anything else.
type dumper struct {
	cfg     Config
	once    sync.Once
	reraise func(os.Signal)
}

func newHandler(cfg Config) *dumper {
	return &dumper{cfg: cfg, reraise: reraise}
}

// handle is the sigplane.CoreDumpFunc: chdir into cfg.Dir, log which signal
// fired, then let the signal re-raise with its default disposition so the
// OS produces the actual core file, instead of the process limping on in
// whatever state the fatal signal caught it in.
func (d *dumper) handle(sig os.Signal) {
	d.once.Do(func() {
		d.dump(sig)
	})
}

func (d *dumper) dump(sig os.Signal) {
	if d.cfg.Dir != "" {
		if err := os.Chdir(d.cfg.Dir); err != nil {
			d.log(fmt.Sprintf("coredump: %s firing, chdir %q failed, dumping wherever the process stands", sig, d.cfg.Dir), ErrorChdirFailed.Error(err))
		}
	}

	d.log(fmt.Sprintf("coredump: %s received, handing off to the default disposition", sig), nil)

	d.reraise(sig)
}

func (d *dumper) log(message string, err error) {
	if d.cfg.Log == nil {
		return
	}

	l := d.cfg.Log()
	if l == nil {
		return
	}

	var errs []error
	if err != nil {
		errs = []error{err}
	}
	l.LogDetails(loglvl.WarnLevel, message, d.cfg.Dir, errs, nil)
}
