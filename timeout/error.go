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

// Package timeout implements spec.md §4.D, the per-worker single-shot
// deadline plane. The original's longjmp-based nonlocal exit from deep
// inside blocking I/O is replaced per Design Notes §9 with a cancellation
// token examined at each suspension point: every deadline is a
// context.Context derived per connection/request, and BlockAlarms/
// UnblockAlarms becomes an explicit "this scope is not cancellable" guard
// with automatic release instead of a signal-mask.
package timeout

import "github.com/nabbar/preforkd/errors"

const (
	ErrorNoActiveTimeout errors.CodeError = iota + errors.MinPkgTimeout
	ErrorNegativeBlockDepth
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoActiveTimeout)
	errors.RegisterIdFctMessage(ErrorNoActiveTimeout, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorNoActiveTimeout:
		return "reset_timeout called with no active deadline"
	case ErrorNegativeBlockDepth:
		return "unblock_alarms called more times than block_alarms"
	}
	return ""
}
