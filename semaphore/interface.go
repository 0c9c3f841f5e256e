/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
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

// Package semaphore provides a weighted, context-aware fan-out helper used
// to bound concurrency when an operation must run across many independent
// targets (worker slots, listeners, pooled servers) and the caller wants to
// block until every one of them has finished.
package semaphore

import (
	"context"
	"sync/atomic"

	xsem "golang.org/x/sync/semaphore"
)

// Sem bounds concurrent fan-out: callers call NewWorker (blocking) or
// NewWorkerTry (non-blocking) before starting a unit of work, DeferWorker
// when it completes, and WaitAll/DeferMain to block until every acquired
// worker has returned.
type Sem interface {
	// NewWorker blocks until a slot is available or the context is done.
	NewWorker() error

	// NewWorkerTry acquires a slot without blocking; returns false if none
	// is immediately available.
	NewWorkerTry() bool

	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry.
	DeferWorker()

	// DeferMain blocks until every outstanding worker has called DeferWorker.
	DeferMain()

	// WaitAll is an alias of DeferMain that additionally surfaces the
	// semaphore's context error, if any.
	WaitAll() error

	// Weighted exposes the underlying golang.org/x/sync/semaphore.Weighted,
	// nil when the semaphore was built with no limit (n <= 0).
	Weighted() *xsem.Weighted

	// Clone returns a fresh semaphore with the same limit and progress
	// setting, bound to the same context.
	Clone() Sem
}

// Semaphore is an alias kept for call sites that predate the Sem rename.
type Semaphore = Sem

// New builds a semaphore limited to n concurrent workers. n <= 0 means
// unlimited concurrency (only DeferMain/WaitAll tracking applies).
// withProgress renders an mpb progress bar tracking worker completion.
func New(ctx context.Context, n int, withProgress bool) Sem {
	return newSem(ctx, n, withProgress)
}

// NewSemaphoreWithContext is a constructor alias used by fan-out helpers
// that pass 0 to mean "no limit, just track completion".
func NewSemaphoreWithContext(ctx context.Context, n int) Sem {
	return newSem(ctx, n, false)
}

var defaultSimultaneous int64 = 32

// MaxSimultaneous returns the package-wide default concurrency limit used
// when a caller constructs a semaphore without specifying one explicitly.
func MaxSimultaneous() int {
	return int(atomic.LoadInt64(&defaultSimultaneous))
}

// SetSimultaneous changes the package-wide default concurrency limit.
func SetSimultaneous(n int) {
	if n > 0 {
		atomic.StoreInt64(&defaultSimultaneous, int64(n))
	}
}
