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

package semaphore

import (
	"context"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	xsem "golang.org/x/sync/semaphore"
)

type sem struct {
	ctx context.Context
	n   int
	wg  sync.WaitGroup
	w   *xsem.Weighted

	prg  *mpb.Progress
	bar  *mpb.Bar
	hasB bool
}

func newSem(ctx context.Context, n int, withProgress bool) *sem {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &sem{
		ctx: ctx,
		n:   n,
	}

	if n > 0 {
		s.w = xsem.NewWeighted(int64(n))
	}

	if withProgress {
		s.prg = mpb.NewWithContext(ctx)
		s.bar = s.prg.AddBar(0,
			mpb.PrependDecorators(decor.Name("sem")),
			mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
		)
		s.hasB = true
	}

	return s
}

func (s *sem) NewWorker() error {
	s.wg.Add(1)

	if s.w == nil {
		return nil
	}

	if err := s.w.Acquire(s.ctx, 1); err != nil {
		s.wg.Done()
		return err
	}

	return nil
}

func (s *sem) NewWorkerTry() bool {
	if s.w != nil && !s.w.TryAcquire(1) {
		return false
	}

	s.wg.Add(1)
	return true
}

func (s *sem) DeferWorker() {
	if s.hasB {
		s.bar.SetTotal(s.bar.Current()+1, false)
		s.bar.Increment()
	}

	if s.w != nil {
		s.w.Release(1)
	}

	s.wg.Done()
}

func (s *sem) DeferMain() {
	s.wg.Wait()

	if s.prg != nil {
		s.prg.Wait()
	}
}

func (s *sem) WaitAll() error {
	s.DeferMain()
	return s.ctx.Err()
}

func (s *sem) Weighted() *xsem.Weighted {
	return s.w
}

func (s *sem) Clone() Sem {
	return newSem(s.ctx, s.n, s.hasB)
}
