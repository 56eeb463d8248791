// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "photometry_http_response_time_seconds",
		Help: "Duration of HTTP requests, by route.",
	}, []string{"path", "method"})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photometry_http_requests_total",
		Help: "Number of HTTP requests, by route and status code.",
	}, []string{"path", "method", "code"})
	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "photometry_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
)

// statusRecorder remembers the status code written, 200 if none was
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Labelled by route template, so every run ID doesn't get its own series
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		path := routePath(r)
		httpDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}
