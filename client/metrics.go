/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricSet is this Client's prometheus collectors, wired directly onto
// github.com/prometheus/client_golang (vip_count, requests_in_flight,
// idle_connections, retries_total) — see DESIGN.md for why the vendored
// prometheus package itself ships no implementation to adapt.
type metricSet struct {
	vipCount          prometheus.Gauge
	requestsInFlight  prometheus.Gauge
	idleConnections   prometheus.Gauge
	requestsTotal     *prometheus.CounterVec
	retriesTotal      *prometheus.CounterVec
}

func newMetricSet() *metricSet {
	m := &metricSet{
		vipCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "s3transfer",
			Name:      "vip_count",
			Help:      "Number of VIPs currently held in the client's VIP table.",
		}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "s3transfer",
			Name:      "requests_in_flight",
			Help:      "Number of meta-requests currently tracked by the scheduler.",
		}),
		idleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "s3transfer",
			Name:      "idle_connections",
			Help:      "Number of idle pooled VIP connections.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "s3transfer",
			Name:      "requests_total",
			Help:      "Completed meta-requests, partitioned by operation and outcome.",
		}, []string{"op", "outcome"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "s3transfer",
			Name:      "retries_total",
			Help:      "Retried HTTP requests, partitioned by retry classification.",
		}, []string{"class"}),
	}

	prometheus.MustRegister(m.vipCount, m.requestsInFlight, m.idleConnections, m.requestsTotal, m.retriesTotal)
	return m
}

func (m *metricSet) setVIPCount(n float64) {
	m.vipCount.Set(n)
}

func (m *metricSet) setIdleConnections(n float64) {
	m.idleConnections.Set(n)
}

func (m *metricSet) setRequestsInFlight(n float64) {
	m.requestsInFlight.Set(n)
}

func (m *metricSet) observeRequest(op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.requestsTotal.WithLabelValues(op, outcome).Inc()
}

func (m *metricSet) observeRetry(class string) {
	m.retriesTotal.WithLabelValues(class).Inc()
}
