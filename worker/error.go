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

// Package worker implements spec.md §4.F, the per-connection cycle run by
// every prefork slot: accept-mutex-serialized accept, HTTP request/response
// via the standard library's http.Server and golang.org/x/net/http2,
// scoreboard status transitions on each ConnState change, and the
// lingering-close retirement of every connection.
package worker

import "github.com/nabbar/preforkd/errors"

const (
	ErrorNoListenerReady errors.CodeError = iota + errors.MinPkgWorker
	ErrorAcceptFailed
	ErrorMaxRequestsReached
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoListenerReady)
	errors.RegisterIdFctMessage(ErrorNoListenerReady, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorNoListenerReady:
		return "no listener in the ring is ready to accept"
	case ErrorAcceptFailed:
		return "accept on the serialized listener failed"
	case ErrorMaxRequestsReached:
		return "worker reached its configured request ceiling and is retiring"
	}
	return ""
}
