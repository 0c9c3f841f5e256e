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

// Package supervisor implements spec.md §4.G: the self-re-exec parent
// process that forks/respawns workers, runs the idle-maintenance
// algorithm, reaps exited children, and drives graceful/hard restart and
// the shutdown escalation ladder. It implements config/types.Component so
// it can be registered and lifecycle-managed like any other component.
package supervisor

import "github.com/nabbar/preforkd/errors"

const (
	ErrorExecutableNotFound errors.CodeError = iota + errors.MinPkgSupervisor
	ErrorSpawnFailed
	ErrorAlreadyRunning
	ErrorNotRunning
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorExecutableNotFound)
	errors.RegisterIdFctMessage(ErrorExecutableNotFound, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorExecutableNotFound:
		return "cannot resolve the supervisor's own executable for re-exec"
	case ErrorSpawnFailed:
		return "make_child failed to start a worker process"
	case ErrorAlreadyRunning:
		return "supervisor is already running"
	case ErrorNotRunning:
		return "supervisor is not running"
	}
	return ""
}
