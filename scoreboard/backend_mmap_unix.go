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

//go:build unix

package scoreboard

import (
	"encoding/binary"
	"sync"

	"golang.org/x/sys/unix"
)

// mmapBackend is the default production backend on unix targets, spec.md
// §4.A(1): "Anonymous shared memory (POSIX mmap(MAP_ANON|MAP_SHARED))".
// Because self-re-exec'd worker children are separate processes rather than
// forked copies of this address space, the mapping is anchored to a real
// file (O_TMPFILE-style unlinked-after-open, matching the teacher's
// unlink-after-open convention for the accept-mutex lock file) so every
// child can MAP_SHARED the same pages by inheriting the fd across exec.
type mmapBackend struct {
	mu   sync.Mutex
	data []byte
	n    int
}

// NewMMapBackend maps a MAP_SHARED region over the already-open fd (expected
// to be inherited by worker children via exec.Cmd.ExtraFiles), sized for n
// slots plus the global header.
func NewMMapBackend(fd int, n int) (Backend, error) {
	size := headerSize + n*SlotSize

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, ErrorBackendOpen.Error(err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, ErrorBackendOpen.Error(err)
	}

	return &mmapBackend{data: data, n: n}, nil
}

func (m *mmapBackend) Len() int { return m.n }

func (m *mmapBackend) ReadSlot(idx int) (WorkerSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx < 0 || idx >= m.n {
		return WorkerSlot{}, ErrorSlotOutOfRange.Error(nil)
	}

	off := headerSize + idx*SlotSize
	return decodeSlot(m.data[off : off+SlotSize]), nil
}

func (m *mmapBackend) WriteSlot(idx int, slot WorkerSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx < 0 || idx >= m.n {
		return ErrorSlotOutOfRange.Error(nil)
	}

	off := headerSize + idx*SlotSize
	slot.encode(m.data[off : off+SlotSize])
	return nil
}

func (m *mmapBackend) ExitGeneration() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return binary.LittleEndian.Uint32(m.data[0:4])
}

func (m *mmapBackend) SetExitGeneration(gen uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	binary.LittleEndian.PutUint32(m.data[0:4], gen)
}

func (m *mmapBackend) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	gen := m.data[0:4]
	var saved [4]byte
	copy(saved[:], gen)

	for i := headerSize; i < len(m.data); i++ {
		m.data[i] = 0
	}
	copy(m.data[0:4], saved[:])
	return nil
}

func (m *mmapBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := unix.Munmap(m.data); err != nil {
		return ErrorBackendClose.Error(err)
	}
	return nil
}
