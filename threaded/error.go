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

// Package threaded implements spec.md §4.I: the single-process,
// goroutine-pool dispatcher used on platforms lacking a usable fork
// (GOOS=windows) or when the operator asks for the single-process debug
// mode. It reuses scoreboard/listener/acceptmutex/timeout/lingerclose
// exactly as the multi-process path does, substituting a bounded
// goroutine pool for the supervisor's process fleet.
package threaded

import "github.com/nabbar/preforkd/errors"

const (
	ErrorAlreadyRunning errors.CodeError = iota + errors.MinPkgThreaded
	ErrorPoolClosed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorAlreadyRunning)
	errors.RegisterIdFctMessage(ErrorAlreadyRunning, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorAlreadyRunning:
		return "threaded dispatcher is already running"
	case ErrorPoolClosed:
		return "threaded dispatcher's worker pool is closed"
	}
	return ""
}
