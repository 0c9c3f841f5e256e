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

// Package metrics exports the scoreboard's census as Prometheus metrics,
// the ambient observability surface SPEC_FULL.md adds alongside the
// supervisor/worker components: one gauge per worker status, a counter of
// completed requests and bytes served, and the exit generation, all derived
// by re-reading the same scoreboard.Scoreboard the supervisor and workers
// already share.
package metrics

import "github.com/nabbar/preforkd/errors"

const (
	ErrorRegisterFailed errors.CodeError = iota + errors.MinPkgMetrics
	ErrorScrapeFailed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorRegisterFailed)
	errors.RegisterIdFctMessage(ErrorRegisterFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorRegisterFailed:
		return "metrics collector could not be registered with the Prometheus registry"
	case ErrorScrapeFailed:
		return "metrics collector failed to read the scoreboard"
	}
	return ""
}
