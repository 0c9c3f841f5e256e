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

package status

import (
	"encoding/json"
	"net/http"
	"sync"
)

type component struct {
	name string
	msg  FctMessage
	ok   bool
}

func (c *component) Name() string    { return c.name }
func (c *component) Message() string {
	if c.msg == nil {
		return ""
	}
	return c.msg()
}
func (c *component) IsOk() bool { return c.ok }

// NewComponent builds a Status backed by a message function. ok reflects
// the component's health at registration time; callers replace the
// component wholesale (ComponentNew) to update it.
func NewComponent(name string, ok bool, msg FctMessage) Status {
	return &component{name: name, msg: msg, ok: ok}
}

type route struct {
	mu         sync.RWMutex
	components map[string]Status
}

func (r *route) ComponentNew(name string, sts Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = sts
}

func (r *route) ComponentGet(name string) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.components[name]
}

type componentView struct {
	Name    string `json:"name"`
	Ok      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func (r *route) snapshot() []componentView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]componentView, 0, len(r.components))
	for _, s := range r.components {
		out = append(out, componentView{Name: s.Name(), Ok: s.IsOk(), Message: s.Message()})
	}

	return out
}

func (r *route) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		view := r.snapshot()

		code := http.StatusOK
		for _, c := range view {
			if !c.Ok {
				code = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(view)
	})
}
