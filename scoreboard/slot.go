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
	"encoding/binary"
	"time"
)

// SlotSize is the fixed, platform-independent encoded size in bytes of one
// WorkerSlot record. File-backed and shared-memory backends address slot i
// at byte offset i*SlotSize, per spec.md §4.A(3).
const SlotSize = 64

// WorkerSlot is the per-worker census entry, spec.md §3 WorkerSlot.
type WorkerSlot struct {
	Status      Status
	Pid         int32
	Generation  uint32
	AccessCount uint64
	BytesServed uint64
	ConnBytes   uint64
	CurVTime    uint32
	LastRTime   int64
}

// encode serializes the slot into a SlotSize-length buffer for the
// file-backed and shared-memory backends.
func (w WorkerSlot) encode(buf []byte) {
	_ = buf[SlotSize-1]
	buf[0] = byte(w.Status)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(w.Pid))
	binary.LittleEndian.PutUint32(buf[8:12], w.Generation)
	binary.LittleEndian.PutUint64(buf[12:20], w.AccessCount)
	binary.LittleEndian.PutUint64(buf[20:28], w.BytesServed)
	binary.LittleEndian.PutUint64(buf[28:36], w.ConnBytes)
	binary.LittleEndian.PutUint32(buf[36:40], w.CurVTime)
	binary.LittleEndian.PutUint64(buf[40:48], uint64(w.LastRTime))
}

func decodeSlot(buf []byte) WorkerSlot {
	_ = buf[SlotSize-1]
	return WorkerSlot{
		Status:      Status(buf[0]),
		Pid:         int32(binary.LittleEndian.Uint32(buf[4:8])),
		Generation:  binary.LittleEndian.Uint32(buf[8:12]),
		AccessCount: binary.LittleEndian.Uint64(buf[12:20]),
		BytesServed: binary.LittleEndian.Uint64(buf[20:28]),
		ConnBytes:   binary.LittleEndian.Uint64(buf[28:36]),
		CurVTime:    binary.LittleEndian.Uint32(buf[36:40]),
		LastRTime:   int64(binary.LittleEndian.Uint64(buf[40:48])),
	}
}

// Touch stamps LastRTime with now, used by the timeout optimizer (spec.md
// §3 "cur_vtime"/"last_rtime").
func (w *WorkerSlot) Touch(now time.Time) {
	w.LastRTime = now.UnixNano()
}
