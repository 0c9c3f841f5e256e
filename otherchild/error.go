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

// Package otherchild implements spec.md §4.G's OtherChild registry: the
// supervisor's bookkeeping for non-worker child processes it piped a log
// writer to (error log pipe, piped access log). Its writable-fd probe is
// fanned out with golang.org/x/sync/semaphore and checked with
// golang.org/x/sys/unix.Poll.
package otherchild

import "github.com/nabbar/preforkd/errors"

const (
	ErrorAlreadyRegistered errors.CodeError = iota + errors.MinPkgOtherChild
	ErrorNotRegistered
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorAlreadyRegistered)
	errors.RegisterIdFctMessage(ErrorAlreadyRegistered, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorAlreadyRegistered:
		return "a child is already registered under this pid"
	case ErrorNotRegistered:
		return "no child is registered under this pid"
	}
	return ""
}
