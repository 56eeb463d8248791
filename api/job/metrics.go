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

package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photometry_jobs_total",
		Help: "Number of photometry jobs run.",
	}, []string{"shape", "method"})
	jobFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photometry_job_failures_total",
		Help: "Number of photometry jobs that failed.",
	}, []string{"reason"})
	positionsMeasured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photometry_positions_total",
		Help: "Number of aperture positions measured.",
	})
	positionsOutOfBounds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photometry_positions_out_of_bounds_total",
		Help: "Number of aperture positions that had no overlap with the data.",
	})
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "photometry_job_duration_seconds",
		Help: "Duration of photometry jobs.",
	}, []string{"shape"})
)

func failureReason(err error) string {
	switch {
	case isUnitMismatch(err):
		return "unit-mismatch"
	case isInvalidArgument(err):
		return "invalid-argument"
	}
	return "internal"
}
