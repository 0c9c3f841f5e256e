/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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
 */

package httpserver

import (
	"net/http"
)

// NewHTTPServer builds an *http.Server tuned from cfg's HTTP/1 and HTTP/2
// options (serverOpt.go's initServer), with TLS wired in from cfg.TLS when
// present. It does not open a socket: the caller — worker's or threaded's
// per-connection single-connection listener adapter — owns accept and
// hands this server one already-accepted net.Conn at a time via Serve.
func NewHTTPServer(cfg ServerConfig, handler http.Handler) (*http.Server, error) {
	srv := &http.Server{Handler: handler}

	opt := optServer{
		ReadTimeout:                  cfg.ReadTimeout,
		ReadHeaderTimeout:            cfg.ReadHeaderTimeout,
		WriteTimeout:                 cfg.WriteTimeout,
		MaxHeaderBytes:               cfg.MaxHeaderBytes,
		MaxHandlers:                  cfg.MaxHandlers,
		MaxConcurrentStreams:         cfg.MaxConcurrentStreams,
		MaxReadFrameSize:             cfg.MaxReadFrameSize,
		PermitProhibitedCipherSuites: cfg.PermitProhibitedCipherSuites,
		IdleTimeout:                  cfg.IdleTimeout,
		MaxUploadBufferPerConnection: cfg.MaxUploadBufferPerConnection,
		MaxUploadBufferPerStream:     cfg.MaxUploadBufferPerStream,
	}

	if err := opt.initServer(srv); err != nil {
		return nil, err
	}

	if cfg.IsTLS() {
		ssl, err := cfg.GetTLS()
		if err != nil {
			return nil, ErrorServerValidate.Error(err)
		}
		srv.TLSConfig = ssl.TlsConfig(cfg.Name)
	}

	return srv, nil
}
