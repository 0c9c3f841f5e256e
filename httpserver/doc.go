/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package httpserver builds tuned, optionally TLS-enabled *http.Server
// values from a declarative, validated ServerConfig.
//
// Unlike a conventional listen-and-serve package, this one never opens a
// socket and never owns an accept loop: the process model that binds
// ports, serializes accept, and dispatches connections to workers lives in
// the supervisor, worker, listener, and threaded packages. Those packages
// call NewHTTPServer once per connection (worker) or once per pool (threaded)
// to get a correctly tuned *http.Server whose Serve method they then drive
// with a single already-accepted net.Conn at a time.
//
// # Configuration
//
// ServerConfig carries three groups of fields:
//
//   - Identity and addressing: Name, Listen, Expose, HandlerKeys.
//   - HTTP/1 and HTTP/2 tuning: ReadTimeout, ReadHeaderTimeout, WriteTimeout,
//     MaxHeaderBytes, MaxHandlers, MaxConcurrentStreams, MaxReadFrameSize,
//     PermitProhibitedCipherSuites, IdleTimeout, MaxUploadBufferPerConnection,
//     MaxUploadBufferPerStream.
//   - TLS: TLSMandatory and TLS (a certificates.Config), with SetDefaultTLS
//     allowing a process-wide default certificate pair to be inherited by
//     servers that don't define their own.
//
// Validate runs github.com/go-playground/validator/v10 struct tags (Name,
// Listen, and Expose are all `validate:"required"`) and returns a single
// aggregated errors.Error listing every failed field.
//
// # Building a server
//
//	cfg := httpserver.ServerConfig{
//	    Name:   "origin",
//	    Listen: "0.0.0.0:8080",
//	    Expose: "http://0.0.0.0:8080",
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := httpserver.NewHTTPServer(cfg, handler)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// srv.Serve(oneAcceptedConnListener) is called by worker/threaded, not here.
//
// # TLS
//
//	cfg.TLS = certificates.Config{ /* certificate pairs */ }
//	if cfg.IsTLS() {
//	    // srv.TLSConfig is populated by NewHTTPServer from cfg.TLS via
//	    // certificates.TLSConfig.TlsConfig(cfg.Name).
//	}
//
// # Error Handling
//
//	Error Code             | Description
//	-----------------------|------------------------------------------
//	ErrorParamsEmpty       | Required parameter missing
//	ErrorHTTP2Configure    | HTTP/2 configuration failed
//	ErrorServerValidate    | Configuration validation failed
//	ErrorPortUse           | Port is already in use
//
//	if err := cfg.Validate(); err != nil {
//	    var liberr errors.Error
//	    if errors.As(err, &liberr) {
//	        switch liberr.Code() {
//	        case httpserver.ErrorPortUse:
//	            log.Println("port already in use")
//	        case httpserver.ErrorServerValidate:
//	            log.Println("invalid configuration")
//	        }
//	    }
//	}
//
// # Related Packages
//
//   - github.com/nabbar/preforkd/certificates: TLS/SSL certificate management,
//     consumed via ServerConfig.TLS and ServerConfig.GetTLS.
//   - github.com/nabbar/preforkd/worker: drives NewHTTPServer's *http.Server
//     per accepted connection in the prefork model.
//   - github.com/nabbar/preforkd/threaded: drives NewHTTPServer's *http.Server
//     per pool worker in the threaded model.
//   - golang.org/x/net/http2: HTTP/2 tuning applied by serverOpt.go.
package httpserver
