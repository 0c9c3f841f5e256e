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

package scoreboard

import (
	"sync/atomic"
	"time"
)

type board struct {
	b       Backend
	maxUsed int32
}

func (s *board) Len() int {
	return s.b.Len()
}

func (s *board) UpdateChildStatus(slot int, status Status, info *RequestInfo) (Status, error) {
	cur, err := s.b.ReadSlot(slot)
	if err != nil {
		return StatusDead, err
	}

	prior := cur.Status
	cur.Status = status
	cur.Touch(time.Now())

	if info != nil {
		cur.AccessCount += info.AccessCountDelta
		cur.BytesServed += info.BytesServedDelta
		cur.ConnBytes = info.ConnBytes
	}

	if err = s.b.WriteSlot(slot, cur); err != nil {
		return prior, err
	}

	s.NoteUsed(slot)
	return prior, nil
}

func (s *board) Slot(idx int) (WorkerSlot, error) {
	return s.b.ReadSlot(idx)
}

func (s *board) FindChildByPid(pid int32) (int, bool) {
	limit := s.MaxDaemonsLimit()
	for i := 0; i < limit; i++ {
		sl, err := s.b.ReadSlot(i)
		if err != nil {
			continue
		}
		if sl.Pid == pid && sl.Status != StatusDead {
			return i, true
		}
	}
	return -1, false
}

func (s *board) ExistsScoreboardImage() bool {
	return s.b != nil
}

func (s *board) MaxDaemonsLimit() int {
	m := int(atomic.LoadInt32(&s.maxUsed))
	if m == 0 {
		return s.b.Len()
	}
	return m
}

func (s *board) NoteUsed(idx int) {
	for {
		cur := atomic.LoadInt32(&s.maxUsed)
		want := int32(idx + 1)
		if want <= cur {
			return
		}
		if atomic.CompareAndSwapInt32(&s.maxUsed, cur, want) {
			return
		}
	}
}

func (s *board) ExitGeneration() uint32 {
	return s.b.ExitGeneration()
}

func (s *board) SetExitGeneration(gen uint32) {
	s.b.SetExitGeneration(gen)
}

func (s *board) Reset() error {
	return s.b.Reset()
}

func (s *board) Close() error {
	return s.b.Close()
}
