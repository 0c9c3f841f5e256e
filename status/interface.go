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

// Package status aggregates per-component health into a single JSON status
// page, the Go equivalent of the scoreboard's human-readable status report
// (server-status style) exposed by each pooled HTTP server.
package status

import (
	"net/http"
)

// FctMessage produces the free-form message attached to a component's
// status (e.g. last error, uptime summary).
type FctMessage func() string

// FuncRoute returns the process-wide RouteStatus instance. Components
// receive it via RegisterStatusRoute (config.types.ComponentStatus) so they
// can publish their own health into the aggregate status page.
type FuncRoute func() RouteStatus

// Status is a single component's health snapshot.
type Status interface {
	Name() string
	Message() string
	IsOk() bool
}

// RouteStatus collects component statuses and renders them as an HTTP
// handler mountable on any mux (net/http or gin).
type RouteStatus interface {
	// ComponentNew registers or replaces the status of a named component.
	ComponentNew(name string, sts Status)

	// ComponentGet returns a previously registered status, nil if absent.
	ComponentGet(name string) Status

	// Handler renders the aggregate status as JSON.
	Handler() http.Handler
}

// New returns an empty RouteStatus ready to register components.
func New() RouteStatus {
	return &route{components: make(map[string]Status)}
}
