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

// Package coredump implements spec.md §4.H / §9's fatal-signal handler: the
// sigplane.CoreDumpFunc the supervisor invokes on SIGSEGV/SIGBUS/SIGABRT,
// grounded on the original httpd's sig_coredump (chdir into a dump
// directory, log which signal fired, then let the signal re-raise with its
// default disposition so the OS produces the actual core file).
package coredump

import "github.com/nabbar/preforkd/errors"

const (
	ErrorChdirFailed errors.CodeError = iota + errors.MinPkgCoredump
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorChdirFailed)
	errors.RegisterIdFctMessage(ErrorChdirFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorChdirFailed:
		return "could not chdir into the core dump directory"
	}
	return ""
}
