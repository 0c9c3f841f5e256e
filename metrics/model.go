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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nabbar/preforkd/scoreboard"
)

var statusLabel = [...]string{
	scoreboard.StatusDead:          "dead",
	scoreboard.StatusStarting:      "starting",
	scoreboard.StatusReady:         "ready",
	scoreboard.StatusBusyRead:      "busy_read",
	scoreboard.StatusBusyWrite:     "busy_write",
	scoreboard.StatusBusyKeepAlive: "busy_keepalive",
}

type exporter struct {
	board scoreboard.Scoreboard

	slots       *prometheus.Desc
	accessCount *prometheus.Desc
	bytesServed *prometheus.Desc
	generation  *prometheus.Desc
}

func newExporter(board scoreboard.Scoreboard, cfg Config) *exporter {
	ns, sub := cfg.Namespace, cfg.Subsystem
	if ns == "" {
		ns = "preforkd"
	}

	return &exporter{
		board: board,
		slots: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "worker_slots"),
			"Number of scoreboard slots currently in each status.",
			[]string{"status"}, nil,
		),
		accessCount: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "requests_total"),
			"Total requests recorded across all scoreboard slots.",
			nil, nil,
		),
		bytesServed: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "bytes_served_total"),
			"Total response bytes recorded across all scoreboard slots.",
			nil, nil,
		),
		generation: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "exit_generation"),
			"Current supervisor exit generation counter.",
			nil, nil,
		),
	}
}

func (e *exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.slots
	ch <- e.accessCount
	ch <- e.bytesServed
	ch <- e.generation
}

// Collect re-reads the scoreboard on every scrape; spec.md §3's census is
// already the source of truth, so this never keeps its own copy.
func (e *exporter) Collect(ch chan<- prometheus.Metric) {
	counts := make(map[scoreboard.Status]float64, len(statusLabel))
	var access, bytesServed uint64

	for i := 0; i < e.board.Len(); i++ {
		s, err := e.board.Slot(i)
		if err != nil {
			continue
		}
		counts[s.Status]++
		access += s.AccessCount
		bytesServed += s.BytesServed
	}

	for status, label := range statusLabel {
		ch <- prometheus.MustNewConstMetric(e.slots, prometheus.GaugeValue, counts[scoreboard.Status(status)], label)
	}

	ch <- prometheus.MustNewConstMetric(e.accessCount, prometheus.CounterValue, float64(access))
	ch <- prometheus.MustNewConstMetric(e.bytesServed, prometheus.CounterValue, float64(bytesServed))
	ch <- prometheus.MustNewConstMetric(e.generation, prometheus.GaugeValue, float64(e.board.ExitGeneration()))
}

func (e *exporter) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(e)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
