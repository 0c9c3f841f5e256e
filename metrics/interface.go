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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/preforkd/scoreboard"
)

// Config names the metric family prefix; Namespace/Subsystem follow the
// client_golang convention of "namespace_subsystem_name".
type Config struct {
	Namespace string
	Subsystem string
}

// Exporter is a prometheus.Collector reading one scoreboard.Scoreboard,
// plus the HTTP handler promhttp builds around it.
type Exporter interface {
	prometheus.Collector

	// Handler serves the text exposition format over the status route.
	Handler() http.Handler
}

// New builds an Exporter over board. It does not register itself with any
// prometheus.Registry; callers (or the config.Component wrapper below) do
// that explicitly so tests can use independent registries.
func New(board scoreboard.Scoreboard, cfg Config) Exporter {
	return newExporter(board, cfg)
}
