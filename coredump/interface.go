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
	liblog "github.com/nabbar/preforkd/logger"
	"github.com/nabbar/preforkd/sigplane"
)

// Config configures the fatal-signal handler.
type Config struct {
	// Dir is the directory the process chdirs into before the signal is
	// allowed to re-raise, so the kernel drops the core file somewhere
	// known rather than wherever the daemon happened to be running from.
	// Empty leaves the current working directory untouched.
	Dir string

	// Log is consulted for a Warning entry naming the signal and the dump
	// directory; a nil Log (or one returning nil) is tolerated and simply
	// skips logging.
	Log liblog.FuncLog
}

// New builds a sigplane.CoreDumpFunc from cfg, suitable for
// sigplane.NewSupervisor's dump argument.
func New(cfg Config) sigplane.CoreDumpFunc {
	return newHandler(cfg).handle
}
