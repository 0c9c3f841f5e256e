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

// Package listener implements spec.md §4.C: the Listener Ring. It owns the
// set of bound listening sockets, presents them as a ring for round-robin
// acceptance, and preserves file descriptors across graceful restarts by
// matching old listeners to new configuration entries on local_addr.
package listener

import "github.com/nabbar/preforkd/errors"

const (
	ErrorListen errors.CodeError = iota + errors.MinPkgListener
	ErrorSocketOption
	ErrorEmptyRing
	ErrorDuplicateAddress
	ErrorInheritedMismatch
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorListen)
	errors.RegisterIdFctMessage(ErrorListen, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorListen:
		return "cannot open listening socket"
	case ErrorSocketOption:
		return "cannot set socket option on listener"
	case ErrorEmptyRing:
		return "listener ring has no members"
	case ErrorDuplicateAddress:
		return "duplicate listener local address"
	case ErrorInheritedMismatch:
		return "inherited file descriptors do not match the expected listener addresses"
	}

	return ""
}
