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

package lingerclose

import (
	"bufio"
	"net"
	"time"
)

// MaxSecsToLinger is spec.md §4.E's MAX_SECS_TO_LINGER: the outer deadline
// bounding the whole drain, so a silent or hostile peer can never hold a
// worker slot open forever.
const MaxSecsToLinger = 30 * time.Second

// discardWindow is the inner read-discard polling interval, spec.md §4.E
// step 4 ("loop with a 2-second inner select window").
const discardWindow = 2 * time.Second

// discardBuf is reused across Close calls; lingering close never touches
// the bytes it discards, so a single scratch buffer is safe to share.
var discardBufSize = 4096

// Close executes spec.md §4.E: flush, half-close for writes, drain and
// discard inbound bytes until either the peer closes or MaxSecsToLinger
// elapses, then close. w, if non-nil, is flushed before the half-close.
func Close(conn net.Conn, w *bufio.Writer) error {
	deadline := time.Now().Add(MaxSecsToLinger)
	_ = conn.SetDeadline(deadline)

	if w != nil {
		if err := w.Flush(); err != nil {
			_ = conn.Close()
			return ErrorFlushFailed.Error(err)
		}
	}

	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return errClose(conn, ErrorNotTCPConn.Error(nil))
	}

	if err := tcp.CloseWrite(); err != nil {
		_ = conn.Close()
		return err
	}

	buf := make([]byte, discardBufSize)
	for {
		if time.Now().After(deadline) {
			break
		}

		window := discardWindow
		if remain := time.Until(deadline); remain < window {
			window = remain
		}
		_ = conn.SetReadDeadline(time.Now().Add(window))

		n, err := conn.Read(buf)
		if n == 0 && err != nil {
			// Peer closed its side, or the inner window elapsed with
			// nothing pending: either way, move on to the next window or
			// to close, per spec.md §4.E.
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			break
		}
	}

	return conn.Close()
}

func errClose(conn net.Conn, err error) error {
	_ = conn.Close()
	return err
}
