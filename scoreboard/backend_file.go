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
	"io"
	"os"
	"sync"

	"github.com/nabbar/preforkd/ioutils"
)

// headerSize is the on-disk size of the ScoreboardGlobal header that
// precedes the slot table in the file-backed scoreboard.
const headerSize = 8

// fileBackend is the regular-file scoreboard of spec.md §4.A(3): "each write
// uses a seek + length-checked write with EINTR retry and partial-write
// loops; each read the same. This mode is correct only because writes never
// span slot boundaries." The spec documents this backend as non-atomic
// against concurrent reads (§9 Open Questions); supervisor.New defaults to
// the mmap backend in production and keeps this one for completeness.
type fileBackend struct {
	mu sync.Mutex
	f  *os.File
	n  int
}

// NewFileBackend opens (creating if needed) a scoreboard_fname-style regular
// file sized for n slots plus the global header.
func NewFileBackend(path string, n int) (Backend, error) {
	if err := ioutils.PathCheckCreate(true, path, 0600, 0755); err != nil {
		return nil, ErrorBackendOpen.Error(err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, ErrorBackendOpen.Error(err)
	}

	fb := &fileBackend{f: f, n: n}

	want := int64(headerSize + n*SlotSize)
	if st, e := f.Stat(); e == nil && st.Size() < want {
		if e = f.Truncate(want); e != nil {
			_ = f.Close()
			return nil, ErrorBackendTruncated.Error(e)
		}
	}

	return fb, nil
}

func (fb *fileBackend) Len() int { return fb.n }

// seekWriteRetry performs a seek then a length-checked write, looping on
// short writes exactly as spec.md's "partial-write loop" describes; Go's
// os.File.Write already retries internally on EINTR, so only the
// partial-write loop is left to do here.
func (fb *fileBackend) seekWriteRetry(off int64, p []byte) error {
	if _, err := fb.f.Seek(off, io.SeekStart); err != nil {
		return err
	}

	for len(p) > 0 {
		n, err := fb.f.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (fb *fileBackend) seekReadRetry(off int64, p []byte) error {
	if _, err := fb.f.Seek(off, io.SeekStart); err != nil {
		return err
	}

	for len(p) > 0 {
		n, err := fb.f.Read(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (fb *fileBackend) ReadSlot(idx int) (WorkerSlot, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if idx < 0 || idx >= fb.n {
		return WorkerSlot{}, ErrorSlotOutOfRange.Error(nil)
	}

	buf := make([]byte, SlotSize)
	if err := fb.seekReadRetry(int64(headerSize+idx*SlotSize), buf); err != nil {
		return WorkerSlot{}, ErrorFileShortRead.Error(err)
	}
	return decodeSlot(buf), nil
}

func (fb *fileBackend) WriteSlot(idx int, slot WorkerSlot) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if idx < 0 || idx >= fb.n {
		return ErrorSlotOutOfRange.Error(nil)
	}

	buf := make([]byte, SlotSize)
	slot.encode(buf)
	if err := fb.seekWriteRetry(int64(headerSize+idx*SlotSize), buf); err != nil {
		return ErrorFileShortWrite.Error(err)
	}
	return nil
}

func (fb *fileBackend) ExitGeneration() uint32 {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	buf := make([]byte, 4)
	if err := fb.seekReadRetry(0, buf); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf)
}

func (fb *fileBackend) SetExitGeneration(gen uint32) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, gen)
	_ = fb.seekWriteRetry(0, buf)
}

// Reset zeroes every slot but preserves exit_generation (spec.md §4.A).
func (fb *fileBackend) Reset() error {
	gen := fb.ExitGeneration()

	fb.mu.Lock()
	zero := make([]byte, SlotSize)
	for i := 0; i < fb.n; i++ {
		if err := fb.seekWriteRetry(int64(headerSize+i*SlotSize), zero); err != nil {
			fb.mu.Unlock()
			return ErrorFileShortWrite.Error(err)
		}
	}
	fb.mu.Unlock()

	fb.SetExitGeneration(gen)
	return nil
}

func (fb *fileBackend) Close() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if err := fb.f.Close(); err != nil {
		return ErrorBackendClose.Error(err)
	}
	return nil
}
