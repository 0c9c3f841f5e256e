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

package worker

import (
	"net"
	"net/http"

	"github.com/nabbar/preforkd/httpserver"
)

// singleConnListener adapts one already-accepted net.Conn into the
// net.Listener shape http.Server.Serve expects, so a worker can hand a
// connection it pulled from the Listener Ring/Accept Mutex pair straight to
// the standard library's HTTP engine without letting it own a socket.
type singleConnListener struct {
	conn   net.Conn
	taken  bool
	closed chan struct{}
}

func newSingleConnListener(c net.Conn) *singleConnListener {
	return &singleConnListener{conn: c, closed: make(chan struct{})}
}

func (l *singleConnListener) Accept() (net.Conn, error) {
	if !l.taken {
		l.taken = true
		return l.conn, nil
	}

	<-l.closed
	return nil, net.ErrClosed
}

func (l *singleConnListener) Close() error {
	select {
	case <-l.closed:
	default:
		close(l.closed)
	}
	return nil
}

func (l *singleConnListener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// ServeConn runs one already-accepted connection to completion through a
// private, per-connection *http.Server built by httpserver.NewHTTPServer
// from cfg, letting the threaded variant (spec.md §4.I) reuse the same
// HTTP/1+2 tuning and TLS wiring the prefork worker uses, minus the accept
// step the job queue already performed. A fresh server per call keeps
// concurrent pool workers from racing on a shared ConnState field.
func ServeConn(handler http.Handler, conn net.Conn, cfg httpserver.ServerConfig) error {
	l := newSingleConnListener(conn)

	srv, err := httpserver.NewHTTPServer(cfg, handler)
	if err != nil {
		return err
	}

	userConnState := srv.ConnState
	srv.ConnState = func(c net.Conn, state http.ConnState) {
		if state == http.StateClosed || state == http.StateHijacked {
			_ = l.Close()
		}
		if userConnState != nil {
			userConnState(c, state)
		}
	}

	return srv.Serve(l)
}
